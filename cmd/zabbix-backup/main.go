package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/semmidev/zabbix-backup/internal/app"
	"github.com/semmidev/zabbix-backup/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, err := newRootCmd()
	if err == nil {
		err = cmd.ExecuteContext(ctx)
	}
	if err != nil {
		cancel()
		log.Fatalf("Error: %v\n", err)
	}
}

func newRootCmd() (*cobra.Command, error) {
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:   "zabbix-backup",
		Short: "Configuration-only backup of a Zabbix database",
		Long: `zabbix-backup dumps every configuration table of a Zabbix database in
full and only the schema of the history, trend, event and audit tables.
The result is written to <output>/zabbix_cfg_<host>_<YYYYMMDD-HHMM>.sql.gz.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v)
		},
	}

	// -h is the database host
	cmd.Flags().Bool("help", false, "help for zabbix-backup")

	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}

	return cmd, nil
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v, config.TerminalPrompt)
	if err != nil {
		return err
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	return application.Run(ctx)
}
