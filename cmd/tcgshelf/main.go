package main

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// BuildTime will be populated by the linker to tell builds apart after they were shipped
var BuildTime string

func main() {
	log.SetFormatter(&log.TextFormatter{
		DisableColors: false,
		FullTimestamp: true,
	})

	log.WithFields(
		log.Fields{
			"Built on":   BuildTime,
			"Started at": time.Now().UTC(),
		},
	).Debugln("Application Started")

	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatalf("%v", err)
	}
}
