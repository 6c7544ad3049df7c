package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sakkanal_backend/internal/scenarios/matching"
	"sakkanal_backend/internal/scenarios/repository"
	"sakkanal_backend/platform/validator"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Scenarios []scenarioSeed `yaml:"scenarios" json:"scenarios" validate:"required,min=1,dive"`
}

type scenarioSeed struct {
	Name              string   `yaml:"name" json:"name" validate:"required"`
	Category          string   `yaml:"category" json:"category" validate:"required,oneof=economique standard premium"`
	SiteTypes         []string `yaml:"site_types" json:"site_types" validate:"required,min=1,dive,required"`
	MinBudget         float64  `yaml:"min_budget" json:"min_budget" validate:"gte=0"`
	MaxBudget         *float64 `yaml:"max_budget" json:"max_budget"`
	EstimatedSavings  float64  `yaml:"estimated_savings" json:"estimated_savings" validate:"gte=0,lte=100"`
	EquipmentLifespan int      `yaml:"equipment_lifespan" json:"equipment_lifespan" validate:"gt=0"`
	Description       string   `yaml:"description" json:"description"`
}

type scenarioUpserter interface {
	Upsert(ctx context.Context, params repository.UpsertParams) (matching.Scenario, error)
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed-scenarios",
	Short: "Load the scenario catalog from a YAML file",
	Long:  "Validates every scenario in the file and upserts it by name. Nothing is written when any entry is invalid.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()

		params, err := loadCatalog(f, validator.New())
		if err != nil {
			return err
		}

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := seedScenarios(ctx, repository.New(pool), params)
		if err != nil {
			return err
		}

		log.Info("scenario catalog seeded", "file", seedFile, "count", n)
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d scenarios\n", n)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "path to the catalog YAML file")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

// loadCatalog decodes and validates a catalog file. Unknown keys are rejected.
func loadCatalog(r io.Reader, val *validator.Validator) ([]repository.UpsertParams, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog file is empty")
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := val.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Scenarios))
	params := make([]repository.UpsertParams, 0, len(file.Scenarios))
	for _, s := range file.Scenarios {
		name := strings.TrimSpace(s.Name)
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("scenario %q is listed twice", name)
		}
		seen[name] = struct{}{}

		maxBudget := s.MaxBudget
		if maxBudget != nil && *maxBudget == 0 {
			maxBudget = nil
		}
		if maxBudget != nil && *maxBudget < s.MinBudget {
			return nil, fmt.Errorf("scenario %q: max_budget is below min_budget", name)
		}

		params = append(params, repository.UpsertParams{
			Name:              name,
			Category:          matching.Category(s.Category),
			SiteTypes:         s.SiteTypes,
			MinBudget:         s.MinBudget,
			MaxBudget:         maxBudget,
			EstimatedSavings:  s.EstimatedSavings,
			EquipmentLifespan: s.EquipmentLifespan,
			Description:       strings.TrimSpace(s.Description),
		})
	}
	return params, nil
}

func seedScenarios(ctx context.Context, repo scenarioUpserter, params []repository.UpsertParams) (int, error) {
	for i, p := range params {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return i, fmt.Errorf("seed %q: %w", p.Name, err)
		}
	}
	return len(params), nil
}
