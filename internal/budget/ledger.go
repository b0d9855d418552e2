package budget

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
)

// DailyLedger is the on-disk shape of the daily-budget ledger: a map
// from UTC date to cumulative spend in micros, as described in
// spec.md's external interfaces section.
type DailyLedger struct {
	ByDate map[string]int64 `json:"by_date"`
}

// HardCapResult is what EnforceDailyHardCap reports back to the caller
// after a reservation attempt.
type HardCapResult struct {
	Day               string
	SpentBeforeMicros int64
	AttemptedMicros   int64
	SpentAfterMicros  int64
}

// EnforceDailyHardCap reserves attemptedMicros against the ledger entry
// for day under an exclusive OS-level file lock held for the full
// read-modify-write cycle. The lock file sits alongside the ledger with
// suffix ".lock", following the same open-then-syscall.Flock pattern as
// the teacher's health-check lock helper. The ledger write itself is an
// atomic replace: a ".tmp" file is written and renamed over the real
// path.
func EnforceDailyHardCap(ledgerPath, day string, attemptedMicros int64) (HardCapResult, *contracts.ContractError) {
	lockPath := ledgerPath + ".lock"
	lockFile, oerr := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if oerr != nil {
		return HardCapResult{}, contracts.NewContractError("daily_budget_ledger_parse_failed", "could not open ledger lock file").WithCause(oerr)
	}
	defer lockFile.Close()

	if ferr := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); ferr != nil {
		return HardCapResult{}, contracts.NewContractError("daily_budget_ledger_parse_failed", "could not acquire ledger lock").WithCause(ferr)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	ledger, rerr := readDailyLedger(ledgerPath)
	if rerr != nil {
		return HardCapResult{}, rerr
	}

	before := ledger.ByDate[day]
	after := before + attemptedMicros
	if after > HardDailySpendCapMicros {
		return HardCapResult{}, contracts.NewContractError("daily_budget_hard_cap_exceeded", "reservation would exceed the daily hard cap").
			WithContext(map[string]any{
				"day":                  day,
				"cap_micros":           HardDailySpendCapMicros,
				"spent_before_micros":  before,
				"attempted_additional_micros": attemptedMicros,
				"would_be_spent_after_micros": after,
			})
	}

	if ledger.ByDate == nil {
		ledger.ByDate = map[string]int64{}
	}
	ledger.ByDate[day] = after
	if werr := writeDailyLedger(ledgerPath, ledger); werr != nil {
		return HardCapResult{}, werr
	}

	return HardCapResult{Day: day, SpentBeforeMicros: before, AttemptedMicros: attemptedMicros, SpentAfterMicros: after}, nil
}

func readDailyLedger(path string) (DailyLedger, *contracts.ContractError) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DailyLedger{ByDate: map[string]int64{}}, nil
		}
		return DailyLedger{}, contracts.NewContractError("daily_budget_ledger_parse_failed", "could not read ledger file").WithCause(err)
	}
	if len(data) == 0 {
		return DailyLedger{ByDate: map[string]int64{}}, nil
	}
	var ledger DailyLedger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return DailyLedger{}, contracts.NewContractError("daily_budget_ledger_parse_failed", "ledger file is not valid JSON").WithCause(err)
	}
	if ledger.ByDate == nil {
		ledger.ByDate = map[string]int64{}
	}
	return ledger, nil
}

func writeDailyLedger(path string, ledger DailyLedger) *contracts.ContractError {
	data, err := json.Marshal(ledger)
	if err != nil {
		return contracts.NewContractError("daily_budget_ledger_parse_failed", "could not serialize ledger").WithCause(err)
	}
	tmpPath := fmt.Sprintf("%s.tmp", path)
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return contracts.NewContractError("daily_budget_ledger_parse_failed", "could not write ledger tmp file").WithCause(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return contracts.NewContractError("daily_budget_ledger_parse_failed", "could not replace ledger file").WithCause(err)
	}
	return nil
}
