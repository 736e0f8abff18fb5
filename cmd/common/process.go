// Package common provides shared helpers for the CLI commands.
package common

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/config"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/logging"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/pipeline"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/similarity"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/snapshot"
)

// BuildProcessor loads the candidate snapshot and wires a pipeline
// Processor from the resolved configuration.
func BuildProcessor(cfg *config.Config, snapshotDir string, log *logrus.Logger) (*pipeline.Processor, error) {
	logger := logging.NewLogrusAdapterFromLogger(log)

	loader := snapshot.NewLoader(logger)
	snap, err := loader.Load(snapshotDir)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot from %s: %w", snapshotDir, err)
	}

	keywords := similarity.DefaultKeywordConfig()
	if cfg.Keywords.File != "" {
		keywords, err = similarity.LoadKeywordConfig(cfg.Keywords.File)
		if err != nil {
			return nil, fmt.Errorf("loading keyword config: %w", err)
		}
	}

	return pipeline.NewProcessor(snap, cfg.Matching, keywords, cfg.ValidatorConfig(), logger), nil
}

// WriteJSON writes v as indented JSON to path, or to stdout when path is
// empty.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
