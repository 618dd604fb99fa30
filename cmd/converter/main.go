// entry point to the converter service
package main

import (
	"github.com/ds124wfegd/image-converter/config"
	"github.com/ds124wfegd/image-converter/internal/appServer"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	config.WatchLogLevel(viperInstance)
	appServer.NewServer(cfg)
}
