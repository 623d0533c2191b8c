package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars lists all environment variables that must be set
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"SOLANA_RPC_URL",
	"DEV_WALLET_PRIVATE_KEY",
	"DEV_WALLET_ADDRESS",
}

// ValidateEnv checks that all required environment variables are set
// and that the schema version matches expectations
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	if schemaVersion == "" {
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	}

	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	var missing []string
	for _, envVar := range RequiredEnvVars {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings checks environment variables and returns warnings
// for risky but legal combinations
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	if strings.EqualFold(os.Getenv("SETTLEMENT_MODE"), SettlementOnChain) &&
		!strings.Contains(os.Getenv("SOLANA_RPC_URL"), "mainnet") {
		warnings = append(warnings, "SETTLEMENT_MODE=onchain with a non-mainnet RPC - Raydium pools are only listed for mainnet")
	}

	if strings.EqualFold(os.Getenv("SETTLEMENT_MODE"), SettlementSimulated) &&
		strings.EqualFold(os.Getenv("LOOTBOX_VARIANT"), VariantSwap) {
		warnings = append(warnings, "LOOTBOX_VARIANT=swap with simulated settlement - winners will not receive tokens")
	}

	if os.Getenv("REDIS_ADDR") == "" {
		warnings = append(warnings, "REDIS_ADDR not set - payment replay protection is per-process only")
	}

	return warnings, nil
}
