// i2shell is the host-side companion of the gateway firmware: it speaks the
// hex wire protocol over a serial port so devices on the gateway's two-wire
// bus can be scanned, read and written from a shell.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wtarreau/i2shell/x/mathx"
)

var (
	portName string
	baudRate int
	cfgPath  string
	verbose  bool

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "i2shell",
	Short: "Talk to an i2shell I2C gateway over a serial port",
	Long: `i2shell drives the hex-only text protocol of an i2shell gateway:
S<aa> selects a 7-bit address, W<dd>.. writes bytes, R<nn> reads bytes.

The serial port can be given with --port, in the config file, or via the
I2SHELL_PORT environment variable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Str("app", "i2shell").Logger().Level(level)
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Probe every 7-bit address and list responding devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := dialFromFlags()
		if err != nil {
			return err
		}
		defer c.Close()

		found, err := c.Scan()
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Println("no devices found")
			return nil
		}
		for _, addr := range found {
			fmt.Printf("0x%02X\n", addr)
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get ADDR REG [COUNT]",
	Short: "Read COUNT bytes (default 1) starting at register REG",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseHexArg(args[0], "ADDR")
		if err != nil {
			return err
		}
		if !mathx.Between(addr, 0, 0x7F) {
			return fmt.Errorf("address %#02x out of 7-bit range", addr)
		}
		reg, err := parseHexArg(args[1], "REG")
		if err != nil {
			return err
		}
		count := uint8(1)
		if len(args) == 3 {
			n, err := parseHexArg(args[2], "COUNT")
			if err != nil {
				return err
			}
			count = uint8(n)
		}

		c, err := dialFromFlags()
		if err != nil {
			return err
		}
		defer c.Close()

		data, err := c.Get(uint8(addr), uint8(reg), count)
		if err != nil {
			return err
		}
		fmt.Printf("% 02X\n", data)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set ADDR REG BYTE...",
	Short: "Write bytes starting at register REG",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseHexArg(args[0], "ADDR")
		if err != nil {
			return err
		}
		if !mathx.Between(addr, 0, 0x7F) {
			return fmt.Errorf("address %#02x out of 7-bit range", addr)
		}
		reg, err := parseHexArg(args[1], "REG")
		if err != nil {
			return err
		}
		var data []byte
		for _, a := range args[2:] {
			b, err := parseHexArg(a, "BYTE")
			if err != nil {
				return err
			}
			data = append(data, uint8(b))
		}

		c, err := dialFromFlags()
		if err != nil {
			return err
		}
		defer c.Close()
		return c.Set(uint8(addr), uint8(reg), data)
	},
}

var rawCmd = &cobra.Command{
	Use:   "raw COMMAND...",
	Short: "Send raw protocol text and print whatever comes back",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := dialFromFlags()
		if err != nil {
			return err
		}
		defer c.Close()

		for _, cmdText := range args {
			out, err := c.Raw(cmdText)
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Println(out)
			}
		}
		return nil
	},
}

func parseHexArg(s, name string) (uint64, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a hex byte", name, s)
	}
	return v, nil
}

// dialFromFlags merges the config file, environment and flags, then opens
// the port.
func dialFromFlags() (*Client, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if portName != "" {
		cfg.Port = portName
	}
	if baudRate != 0 {
		cfg.Baud = baudRate
	}
	if cfg.Port == "" {
		cfg.Port = os.Getenv("I2SHELL_PORT")
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("no serial port: use --port, %s, or I2SHELL_PORT", defaultConfigName)
	}
	log.Debug().Str("port", cfg.Port).Int("baud", cfg.Baud).Msg("opening")
	return Dial(cfg, log)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 0, "Baud rate (USB CDC ignores this)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(scanCmd, getCmd, setCmd, rawCmd, termCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
