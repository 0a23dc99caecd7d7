package main

import (
	"fmt"

	"github.com/temirov/xcontext/internal/cli"
	"github.com/temirov/xcontext/internal/utils"
)

// main is the entry point for the xcontext command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false, 0)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
