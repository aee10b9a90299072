package gateway

// helpText is emitted verbatim for the '?' command. Lives in flash.
const helpText = "" +
	"I2C gateway commands (hex digits, case-insensitive):\r\n" +
	"  S<aa>   select 7-bit target address <aa>\r\n" +
	"  W<dd>.. open a write to the target, send each byte <dd>\r\n" +
	"  P       close the current write\r\n" +
	"  R<nn>   read <nn> bytes from the target and print them\r\n" +
	"  ?       this help\r\n" +
	"Spaces are optional; any command letter ends the previous command.\r\n"
