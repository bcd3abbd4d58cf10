package utils

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// UnmarshalFrame decodes one wire frame into v. Vendors occasionally emit
// slightly broken JSON (truncated frames, single quotes, trailing commas), so
// a strict parse failure is followed by one repair-and-retry pass before the
// frame is given up on. Callers treat a returned error as "frame carries no
// content", never as a stream-fatal condition.
func UnmarshalFrame(data string, v any) error {
	strictErr := json.Unmarshal([]byte(data), v)
	if strictErr == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(data)
	if repairErr != nil {
		return fmt.Errorf("failed to parse frame: %w", strictErr)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("failed to parse repaired frame: %w", err)
	}
	return nil
}
