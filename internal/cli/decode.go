package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/lspdecode/internal/cli/render"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// NewDecodeCmd creates the decode command group
func NewDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode revert data, call data, logs and return data",
		Long: `Decode a payload by looking up its selector in the registry.

Payloads are 0x-prefixed hex. Pass "-" to read the payload from stdin.`,
	}

	cmd.AddCommand(
		newDecodeSelectorCmd("error", domain.KindError, "Decode revert data", `  # Decode a custom error
  lspdecode decode error 0x5560e16d000000000000000000000000000000000000000000000000000000000000aaaa

  # Decode a require message
  lspdecode decode error 0x08c379a0...`),
		newDecodeSelectorCmd("call", domain.KindFunction, "Decode call data", `  # Decode an execute call to a universal profile
  lspdecode decode call 0x44c028fe...

  # Pick between colliding selectors
  lspdecode decode call 0x42966c68... --namespace StorageProxy`),
		newDecodeLogCmd(),
		newDecodeReturnCmd(),
		newDecodeBatchCmd(),
	)

	return cmd
}

func newDecodeSelectorCmd(use string, kind domain.Kind, short, example string) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <hex>",
		Short:   short,
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			data, err := readHexArg(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			result, err := app.DecodePayload.Run(cmd.Context(), usecase.DecodeRequest{
				Kind: kind,
				Data: data,
				Hint: configHint(app),
			})
			if err != nil {
				return err
			}
			return render.NewResultRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result)
		},
	}
}

func newDecodeLogCmd() *cobra.Command {
	var (
		topics []string
		data   string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Decode an event log from its topics and data",
		Example: `  # Decode a DataChanged event
  lspdecode decode log \
    --topic 0xece574603820d07bc9b91f2a932baadf4628aabcb8afba49776529c14a6104b2 \
    --topic 0xdeba1e292f8ba88238e10ab3c7f88bd4be4fac56cad5194b6ecceaf653468af1 \
    --data 0x...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			hashes, err := parseTopics(topics)
			if err != nil {
				return err
			}
			payload, err := parseHex(data)
			if err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}

			result, err := app.DecodePayload.Run(cmd.Context(), usecase.DecodeRequest{
				Kind:   domain.KindEvent,
				Topics: hashes,
				Data:   payload,
				Hint:   configHint(app),
			})
			if err != nil {
				return err
			}
			return render.NewResultRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result)
		},
	}

	cmd.Flags().StringArrayVar(&topics, "topic", nil, "Log topic, topic 0 first (repeatable)")
	cmd.Flags().StringVar(&data, "data", "0x", "Log data")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func newDecodeReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <selector> <hex>",
		Short: "Decode the return data of a function",
		Example: `  # Decode the result of balanceOf
  lspdecode decode return 0x70a08231 0x000000000000000000000000000000000000000000000000000000000000002a`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			selector, err := domain.ParseSelector(args[0])
			if err != nil {
				return err
			}
			data, err := readHexArg(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			result, err := app.DecodePayload.Run(cmd.Context(), usecase.DecodeRequest{
				Kind:     domain.KindFunction,
				Return:   true,
				Selector: selector,
				Data:     data,
				Hint:     configHint(app),
			})
			if err != nil {
				return err
			}
			return render.NewResultRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result)
		},
	}
}

func newDecodeBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file>",
		Short: "Decode many payloads, one per line",
		Long: `Decode every line of a file concurrently. Results keep the input order and a
failing line does not stop the others. Ambiguous selectors are reported rather
than prompted for.

Line formats:
  error:<hex>
  call:<hex>
  return:<selector>:<hex>
  log:<topic0>[,<topic1>...]:<data>

Blank lines and lines starting with # are skipped. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open batch file: %w", err)
				}
				defer f.Close()
				in = f
			}

			reqs, err := parseBatch(in, configHint(app))
			if err != nil {
				return err
			}

			result, err := app.DecodeBatch.Run(cmd.Context(), reqs)
			if err != nil {
				return err
			}
			if err := render.NewBatchRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result); err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d of %d payloads failed to decode", result.Failed, len(result.Items))
			}
			return nil
		},
	}
}

// parseBatch reads one request per non-empty, non-comment line
func parseBatch(r io.Reader, hint domain.Hint) ([]usecase.DecodeRequest, error) {
	var reqs []usecase.DecodeRequest
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		req, err := parseBatchLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		req.Hint = hint
		reqs = append(reqs, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}
	return reqs, nil
}

func parseBatchLine(line string) (usecase.DecodeRequest, error) {
	kind, rest, ok := strings.Cut(line, ":")
	if !ok {
		return usecase.DecodeRequest{}, fmt.Errorf("expected <kind>:<payload>, got %q", line)
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "error":
		data, err := parseHex(rest)
		return usecase.DecodeRequest{Kind: domain.KindError, Data: data}, err
	case "call", "function":
		data, err := parseHex(rest)
		return usecase.DecodeRequest{Kind: domain.KindFunction, Data: data}, err
	case "return":
		sel, data, ok := strings.Cut(rest, ":")
		if !ok {
			return usecase.DecodeRequest{}, fmt.Errorf("expected return:<selector>:<hex>")
		}
		selector, err := domain.ParseSelector(sel)
		if err != nil {
			return usecase.DecodeRequest{}, err
		}
		payload, err := parseHex(data)
		return usecase.DecodeRequest{Kind: domain.KindFunction, Return: true, Selector: selector, Data: payload}, err
	case "log", "event":
		topics, data, _ := strings.Cut(rest, ":")
		hashes, err := parseTopics(strings.Split(topics, ","))
		if err != nil {
			return usecase.DecodeRequest{}, err
		}
		payload, err := parseHex(data)
		return usecase.DecodeRequest{Kind: domain.KindEvent, Topics: hashes, Data: payload}, err
	}
	return usecase.DecodeRequest{}, fmt.Errorf("unknown kind %q (valid: error, call, return, log)", kind)
}

// readHexArg parses a hex argument, reading it from stdin when arg is "-"
func readHexArg(stdin io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		arg = string(raw)
	}
	return parseHex(arg)
}

// parseHex decodes hex with or without the 0x prefix
func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []byte{}, nil
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if s == "0x" || s == "0X" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(strings.ToLower(s))
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", abbreviate(s), err)
	}
	return b, nil
}

func parseTopics(topics []string) ([]common.Hash, error) {
	hashes := make([]common.Hash, 0, len(topics))
	for i, t := range topics {
		b, err := parseHex(t)
		if err != nil {
			return nil, fmt.Errorf("topic %d: %w", i, err)
		}
		if len(b) != common.HashLength {
			return nil, fmt.Errorf("topic %d: expected 32 bytes, got %d", i, len(b))
		}
		hashes = append(hashes, common.BytesToHash(b))
	}
	return hashes, nil
}

func abbreviate(s string) string {
	if len(s) <= 20 {
		return s
	}
	return s[:10] + "…" + s[len(s)-6:]
}
