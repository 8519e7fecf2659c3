package advisor

import (
	"encoding/json"
	"time"

	"github.com/opscart/vm-advisor/pkg/models"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// makeRec builds a record; metadata is the raw JSON payload ("" for none).
func makeRec(id string, t models.RecommendationType, metadata string, createdAt time.Time) models.RecommendationRecord {
	rec := models.RecommendationRecord{
		ID:        id,
		Type:      t,
		MachineID: "vm-1",
		CreatedAt: createdAt,
	}
	if metadata != "" {
		rec.Metadata = json.RawMessage(metadata)
	}
	return rec
}

func ids(ranked []models.AdvisedRecommendation) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Record.ID)
	}
	return out
}

func intPtr(v int) *int {
	return &v
}

// fixture covers every urgency rule plus an unknown type and a duplicate ID.
func fixture() []models.RecommendationRecord {
	return []models.RecommendationRecord{
		makeRec("r1", models.RecommendationOSUpdateAvailable, `{"rebootDays": 8}`, baseTime.Add(1*time.Hour)),
		makeRec("r2", models.RecommendationDefenderThreat, `{"activeThreats": 2}`, baseTime.Add(2*time.Hour)),
		makeRec("r3", models.RecommendationAppUpdateAvailable, `{"securityUpdateCount": 2, "updateCount": 5}`, baseTime.Add(3*time.Hour)),
		makeRec("r4", models.RecommendationPortBlocked, `{"ports": [443]}`, baseTime.Add(4*time.Hour)),
		makeRec("r5", models.RecommendationDiskSpaceLow, `{"drive": "C:"}`, baseTime.Add(5*time.Hour)),
		makeRec("r6", models.RecommendationOverProvisioned, "", baseTime.Add(6*time.Hour)),
		makeRec("r7", "MYSTERY_CHECK", "", baseTime.Add(7*time.Hour)),
		makeRec("r1", models.RecommendationOther, "", baseTime.Add(8*time.Hour)),
	}
}
