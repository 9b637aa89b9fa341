package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/breezi/internal/repository"
	"github.com/deppfellow/breezi/internal/service"
)

func runBindings(_ *cobra.Command, _ []string) error {
	a, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer a.loggerService.Shutdown()

	// Exporting only reads procedure metadata; no storage is opened.
	services := service.NewServices(&repository.Repositories{}, &a.log)
	dispatcher, err := a.dispatcher(services)
	if err != nil {
		return err
	}

	return a.exportBindings(dispatcher)
}
