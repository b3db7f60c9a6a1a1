package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/kokkonisd/locstats/internal/config"
	"github.com/kokkonisd/locstats/internal/ui"
)

func newServeCmd(global *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recorded run history as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := currentDir()
			if err != nil {
				return err
			}
			server, closeFn, err := newHistoryServer(cwd, *global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()
			return server.ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultServeAddr, "Address to listen on")
	return cmd
}

func newHistoryServer(projectDir string, global globalFlags, stderr io.Writer) (*ui.Server, func(), error) {
	cfg, err := config.Load(global.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(stderr, cfg.LogLevel, global.Verbose, false)
	if err != nil {
		return nil, nil, err
	}
	svc, err := openService(cfg, log, serviceOptions{})
	if err != nil {
		return nil, nil, err
	}
	history, err := openHistory(projectDir, false)
	if err != nil {
		return nil, nil, err
	}
	svc.History = history

	server, err := ui.NewServer(svc, log)
	if err != nil {
		_ = history.Close()
		return nil, nil, err
	}
	return server, func() { _ = history.Close() }, nil
}
