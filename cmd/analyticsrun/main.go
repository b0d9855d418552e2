// analyticsrun is a one-shot CLI entrypoint: it loads configuration,
// builds the analytics orchestrator, drives a single run against the
// simulated connector, and prints the resulting artifact as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/codeready-toolchain/tarsy/internal/analytics"
	"github.com/codeready-toolchain/tarsy/internal/attestation"
	"github.com/codeready-toolchain/tarsy/internal/config"
	"github.com/codeready-toolchain/tarsy/internal/connector"
	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/codeready-toolchain/tarsy/internal/textworkflow"
	"github.com/joho/godotenv"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", ""), "Path to YAML config file")
	envPath := flag.String("env-file", getEnv("ENV_FILE", ".env"), "Path to a .env file to load before reading configuration")
	profileID := flag.String("profile-id", getEnv("PROFILE_ID", "cli-run"), "Profile id attached to the run request")
	startDate := flag.String("start-date", getEnv("ANALYTICS_START_DATE", ""), "Run window start date (YYYY-MM-DD); defaults to 6 days before end-date (a 7-day window)")
	endDate := flag.String("end-date", getEnv("ANALYTICS_END_DATE", time.Now().UTC().Format("2006-01-02")), "Run window end date (YYYY-MM-DD)")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil {
		log.Printf("warning: could not load %s: %v", *envPath, err)
		log.Printf("continuing with existing environment variables")
	} else {
		log.Printf("loaded environment from %s", *envPath)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	registry := loadAttestationRegistry(cfg)
	conn := connector.NewSimulated()
	svc := analytics.NewService(cfg, conn, registry)

	end := *endDate
	start := *startDate
	if start == "" {
		t, perr := time.Parse("2006-01-02", end)
		if perr != nil {
			log.Fatalf("invalid -end-date %q: %v", end, perr)
		}
		start = t.AddDate(0, 0, -6).Format("2006-01-02")
	}

	req := contracts.RunRequest{
		StartDate:         start,
		EndDate:           end,
		ProfileID:         *profileID,
		IncludeNarratives: true,
		BudgetEnvelope:    cfg.Budget.Envelope,
	}

	ctx := context.Background()
	artifact, cerr := svc.Run(ctx, req, nil)
	if cerr != nil {
		log.Fatalf("analytics run failed: %s: %s", cerr.Code, cerr.Message)
	}
	printJSON("artifact", artifact)

	if cfg.Features.TextWorkflowsEnabled {
		runSampleTextWorkflow()
	}
}

func loadAttestationRegistry(cfg *config.Config) *attestation.KeyRegistry {
	if !cfg.Attestation.Enabled {
		return nil
	}
	raw := os.Getenv(cfg.Attestation.KeyringJSONEnv)
	if raw == "" {
		log.Printf("attestation enabled but %s is empty; artifacts will be unsigned", cfg.Attestation.KeyringJSONEnv)
		return nil
	}
	registry, aerr := attestation.NewKeyRegistryFromJSON([]byte(raw))
	if aerr != nil {
		log.Fatalf("failed to load attestation keyring from %s: %s: %s", cfg.Attestation.KeyringJSONEnv, aerr.Code, aerr.Message)
	}
	return registry
}

// runSampleTextWorkflow demonstrates the prioritized text workflow
// runtime end to end using the message-house template and a minimal
// evidence-backed campaign spine.
func runSampleTextWorkflow() {
	req := textworkflow.RunRequest{
		TemplateID: textworkflow.TemplateMessageHouse,
		CampaignSpine: textworkflow.CampaignSpine{
			CampaignSpineID:      "spine.cli-run.v1",
			ProductName:          "sample product",
			OfferSummary:         "introductory offer",
			AudienceSegments:     []string{"new customers"},
			PositioningStatement: "clear, evidence-backed positioning",
			MessageHouse: textworkflow.MessageHouse{
				BigIdea: "confidence from the first use",
				ProofPoints: []textworkflow.ProofPoint{
					{ClaimID: "claim1", ClaimText: "independently verified result", EvidenceRefIDs: []string{"ev1"}},
				},
			},
			EvidenceRefs: []textworkflow.EvidenceRef{
				{EvidenceID: "ev1", SourceRef: "internal.sample.v1", Excerpt: "sample supporting evidence"},
			},
		},
		Budget: textworkflow.DefaultBudgetEnvelope(),
	}

	result, rerr := textworkflow.Run(req)
	if rerr != nil {
		log.Printf("sample text workflow run failed: %s: %s", rerr.Code, rerr.Message)
		return
	}
	printJSON("text_workflow", result)
}

func printJSON(label string, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal %s: %v", label, err)
	}
	fmt.Println(string(out))
}
