package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// exitChar ends an interactive session (Ctrl-]).
const exitChar = 0x1D

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Interactive session with the gateway (exit with Ctrl-])",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := dialFromFlags()
		if err != nil {
			return err
		}
		defer c.Close()

		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return fmt.Errorf("stdin is not a terminal")
		}
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, oldState)

		fmt.Fprintf(os.Stderr, "connected, Ctrl-] exits\r\n")

		done := make(chan error, 1)
		go func() {
			buf := make([]byte, 256)
			for {
				n, err := c.port.Read(buf)
				if err != nil {
					done <- err
					return
				}
				if n > 0 {
					os.Stdout.Write(buf[:n])
				}
			}
		}()

		in := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(in); err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
			if in[0] == exitChar {
				return nil
			}
			if _, err := c.port.Write(in); err != nil {
				return err
			}
			select {
			case err := <-done:
				return err
			default:
			}
		}
	},
}
