package cli

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// maxRequestSize caps how much of the request file is sent.
const maxRequestSize = 2047

// SendOptions holds flags for the send command.
type SendOptions struct {
	*RootOptions
	Port    int
	Timeout time.Duration
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "send <host> <json_file>",
		Short: "Send one request envelope and print the reply",
		Long: `Read a request envelope from a JSON file, send it to the envelope
server and print the reply. Files longer than 2047 bytes are cut off.

Example:
  movie-records send localhost requests/create.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 7777, "port of the envelope server")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "dial and reply timeout")

	return cmd
}

func runSend(cmd *cobra.Command, opts *SendOptions, host, path string) error {
	message, err := readRequest(path)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(opts.Port)), opts.Timeout)
	if err != nil {
		return fmt.Errorf("client: failed to connect: %w", err)
	}
	defer conn.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "client: connecting to %s\n", conn.RemoteAddr().String())

	if err := conn.SetDeadline(time.Now().Add(opts.Timeout)); err != nil {
		return err
	}
	if _, err := conn.Write(message); err != nil {
		return fmt.Errorf("client: send: %w", err)
	}
	// Half-close so the server sees the end of the request stream and
	// closes once the reply is written.
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return fmt.Errorf("client: close write: %w", err)
		}
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return fmt.Errorf("client: recv: %w", err)
	}

	fmt.Fprintf(out, "client: received '%s'\n", reply)
	return nil
}

func readRequest(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open request file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxRequestSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	return data, nil
}
