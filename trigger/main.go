package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	sqlx "github.com/jmoiron/sqlx"
	trigger "github.com/next-exp/trigger_go/pkg"
)

var dbConn *sqlx.DB
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
	flag.Parse()

	var err error
	configuration, err = trigger.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	trigger.SetConfiguration(configuration)
	trigger.SetLogger(logger)

	runID := uuid.NewString()
	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		logger.Info(fmt.Sprintf("Run %s, reading configuration file: %s", runID, *configFilename), "main")
		trigger.PrintConfiguration(configuration, logger)
	}
	if err := configuration.Trigger.Validate(); err != nil {
		logger.Error(fmt.Errorf("Invalid trigger configuration: %w", err).Error())
		os.Exit(1)
	}

	mapping, err := loadMapping()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		message := fmt.Errorf("Error opening file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	defer file.Close()

	reader := trigger.NewEventReader(file, configuration.Skip, configuration.MaxEvents)
	events, err := reader.ReadEvents(mapping.Clone())
	if err != nil {
		message := fmt.Errorf("error reading events: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	if VerbosityLevel > 0 {
		logger.Info(fmt.Sprintf("Number of events: %d", len(events)), "main")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := trigger.RunBatch(ctx, configuration.Trigger, events, configuration.NumWorkers)
	if err != nil {
		message := fmt.Errorf("error running trigger: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	duration := time.Since(start)

	metrics := trigger.NewMetrics()
	prompt, delayed := 0, 0
	for _, result := range results {
		metrics.Observe(result)
		if result.FinalDecision {
			prompt++
		}
		if result.DelayedFinalDecision {
			delayed++
		}
		if VerbosityLevel > 0 {
			message := fmt.Sprintf("Event %d: L1 %t, prompt %t, delayed %t, %d L2 decisions",
				result.EventID, result.CaloDecision, result.FinalDecision, result.DelayedFinalDecision, len(result.L2Decisions))
			logger.Info(message, "main")
		}
	}

	if configuration.WriteData {
		if err := writeResults(configuration.FileOut, results); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
	}
	if configuration.MetricsFile != "" {
		if err := metrics.WriteToFile(configuration.MetricsFile); err != nil {
			logger.Error(fmt.Errorf("error writing metrics: %w", err).Error())
		}
	}

	logger.Info(fmt.Sprintf("Run %s: %d events, %d prompt triggers, %d delayed triggers in %d ms",
		runID, len(results), prompt, delayed, duration.Milliseconds()), "main")
}

func loadMapping() (trigger.ChannelMapping, error) {
	if configuration.NoDB {
		if VerbosityLevel > 0 {
			logger.Info("Using identity channel mapping", "main")
		}
		return trigger.IdentityMapping(), nil
	}

	var err error
	dbConn, err = trigger.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
	if err != nil {
		return trigger.ChannelMapping{}, fmt.Errorf("Error connection to database: %w", err)
	}
	defer dbConn.Close()

	mapping, err := trigger.LoadDatabase(dbConn, configuration.RunNumber)
	if err != nil {
		return trigger.ChannelMapping{}, err
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Channel mapping for run %d: %d calo boards, %d tracker boards",
			configuration.RunNumber, len(mapping.Calo), len(mapping.Tracker))
		logger.Info(message, "main")
	}
	return mapping, nil
}

func writeResults(filename string, results []trigger.Result) (err error) {
	writer, err := trigger.NewWriter(filename)
	if err != nil {
		return fmt.Errorf("error creating writer: %w", err)
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := writer.WriteTriggerConfiguration(configuration.Trigger); err != nil {
		return err
	}
	for _, result := range results {
		if err := writer.WriteResult(result); err != nil {
			return err
		}
	}
	return nil
}
