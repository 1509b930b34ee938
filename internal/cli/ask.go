package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gpt-interface/gpt-interface-go/internal/config"
	"github.com/gpt-interface/gpt-interface-go/internal/provider"
	"github.com/gpt-interface/gpt-interface-go/internal/session"
)

type askOptions struct {
	Model       string
	Temperature float64
	Stream      bool
	NoStream    bool
}

func newAskCmd(root *Options) *cobra.Command {
	opts := &askOptions{}
	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Send one prompt and print the answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, root, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.Model, "model", "", "model name (default: first catalog model)")
	cmd.Flags().Float64Var(&opts.Temperature, "temperature", -1, "sampling temperature, 0 to 2 (default: config)")
	cmd.Flags().BoolVar(&opts.Stream, "stream", true, "stream response")
	cmd.Flags().BoolVar(&opts.NoStream, "no-stream", false, "disable streaming response")
	return cmd
}

func runAsk(cmd *cobra.Command, root *Options, opts *askOptions, args []string) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	prompt := strings.Join(args, " ")
	if strings.TrimSpace(prompt) == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read prompt: %w", err)
		}
		prompt = strings.TrimRight(string(data), "\r\n")
	}
	if strings.TrimSpace(prompt) == "" {
		return errors.New("prompt is required")
	}

	rt, err := newRouter(cfg)
	if err != nil {
		return err
	}
	settings := session.Settings{Model: opts.Model, Temperature: opts.Temperature}
	if settings.Model == "" {
		settings.Model = rt.Default().Name
	}
	if settings.Temperature < 0 {
		settings.Temperature = cfg.DefaultTemperature
	}
	if err := settings.Validate(rt.Has); err != nil {
		return err
	}
	p, err := rt.ProviderFor(settings.Model)
	if err != nil {
		return err
	}

	req := &provider.Request{Text: prompt, Model: settings.Model, Temperature: settings.Temperature}
	out := cmd.OutOrStdout()
	if opts.Stream && !opts.NoStream {
		err = provider.StreamComplete(cmd.Context(), p, req, func(fragment string) error {
			_, writeErr := fmt.Fprint(out, fragment)
			return writeErr
		})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out)
		return nil
	}

	choices, err := p.Complete(cmd.Context(), req)
	if err != nil {
		return err
	}
	for _, c := range choices {
		if _, err := fmt.Fprintln(out, c); err != nil {
			return err
		}
	}
	return nil
}
