package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	trigger "github.com/next-exp/trigger_go/pkg"
)

var configuration trigger.Configuration

var (
	logger         trigger.SlogLogger
	VerbosityLevel int
)

func init() {
	logger = trigger.NewSlogLogger(os.Stdout, os.Stderr)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	mode := flag.String("mode", "", "Trigger mode override (calo_only or coincidence)")
	maxDepth := flag.Int("max-depth", 0, "Also scan window depths from 1 to max-depth")
	flag.Parse()

	var err error
	configuration, err = trigger.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	if *mode != "" {
		configuration.Trigger.Mode = *mode
	}
	trigger.SetConfiguration(configuration)
	trigger.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		trigger.PrintConfiguration(configuration, logger)
	}

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		message := fmt.Errorf("Error opening file: %w", err)
		logger.Error(message.Error())
		return
	}
	defer file.Close()

	events, err := trigger.NewEventReader(file, configuration.Skip, configuration.MaxEvents).ReadEvents(trigger.IdentityMapping())
	if err != nil {
		message := fmt.Errorf("error reading events: %w", err)
		logger.Error(message.Error())
		return
	}
	fmt.Println("Total events read: ", len(events))

	depths := []int{configuration.Trigger.WindowDepth}
	if *maxDepth > 0 {
		depths = depths[:0]
		for depth := 1; depth <= *maxDepth; depth++ {
			depths = append(depths, depth)
		}
	}

	start := time.Now()
	for _, depth := range depths {
		for threshold := uint(0); threshold <= trigger.MAX_MULTIPLICITY; threshold++ {
			config := configuration.Trigger
			config.WindowDepth = depth
			config.Threshold = threshold

			startScan := time.Now()
			results, err := trigger.RunBatch(context.Background(), config, events, configuration.NumWorkers)
			if err != nil {
				logger.Error(fmt.Sprintf("depth %d, threshold %d: %v", depth, threshold, err))
				continue
			}
			duration := time.Since(startScan)

			calo, prompt, delayed := 0, 0, 0
			for _, result := range results {
				if result.CaloDecision {
					calo++
				}
				if result.FinalDecision {
					prompt++
				}
				if result.DelayedFinalDecision {
					delayed++
				}
			}
			fmt.Printf("(%s, depth %d, threshold %d) L1: %d, prompt: %d, delayed: %d, time: %d ms\n",
				config.Mode, depth, threshold, calo, prompt, delayed, duration.Milliseconds())
		}
	}

	duration := time.Since(start)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}
