package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bt-hwcontrol/pkg/config"
	"bt-hwcontrol/pkg/hwcontrol"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int32
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Watch the adapter and serve the observer API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				conf.ServerConfig.Port = port
			}

			return serve(conf)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().Int32VarP(&port, "port", "p", 0, "API port (overrides config and "+config.PortEnv+")")

	return cmd
}

func serve(conf *config.Config) error {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	controller := hwcontrol.NewController()
	ble := hwcontrol.CreateBLEPowerSource(controller)

	runner := hwcontrol.NewDefaultTransportRunner()
	runner.Add(ble)

	err := runner.Run()
	if err != nil {
		return err
	}

	log.Println("Runner started")

	server := hwcontrol.NewServer(controller, ble)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run(conf.ServerConfig.Addr())
	}()

	select {
	case <-stopChan:
	case err = <-serverErr:
		err = fmt.Errorf("api server: %w", err)
	}

	// Teardown
	if stopErr := runner.Stop(); stopErr != nil {
		log.Printf("Failed stopping runner: %s\n", stopErr)
	}

	log.Println("Runner stopped")

	return err
}
