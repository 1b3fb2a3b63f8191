package testkit

import (
	"fmt"
	"math/rand"
	"time"

	"fieldbook/domain/record"
	"fieldbook/domain/schema"
	"fieldbook/domain/validation"
)

// Categories used by the demo expense schema
var demoCategories = []string{"food", "travel", "office", "other"}

// TestKit generates deterministic demo schemas and record payloads for
// tests and local seeding. The same seed always yields the same data.
type TestKit struct {
	rng *rand.Rand
}

// New creates a test kit with the given seed
func New(seed int64) *TestKit {
	return &TestKit{rng: rand.New(rand.NewSource(seed))}
}

// DemoSchema builds the demo expense-tracker schema
func (k *TestKit) DemoSchema() (*schema.Schema, error) {
	return schema.New("expenses", []schema.FieldDescriptor{
		{Name: "description", Type: schema.FieldTypeText},
		{Name: "amount", Type: schema.FieldTypeNumber, Required: true},
		{Name: "incurred_on", Type: schema.FieldTypeDate},
		{Name: "category", Type: schema.FieldTypeSelect, Required: true, Options: demoCategories},
	})
}

// GenerateRawPayloads produces n raw submissions for the demo schema.
// Roughly one in ten drops the optional description.
func (k *TestKit) GenerateRawPayloads(n int) []map[string]interface{} {
	payloads := make([]map[string]interface{}, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range payloads {
		raw := map[string]interface{}{
			"amount":      float64(k.rng.Intn(20000)) / 100.0,
			"incurred_on": base.AddDate(0, 0, k.rng.Intn(365)).Format("2006-01-02"),
			"category":    demoCategories[k.rng.Intn(len(demoCategories))],
		}
		if k.rng.Intn(10) != 0 {
			raw["description"] = fmt.Sprintf("expense %d", i+1)
		}
		payloads[i] = raw
	}

	return payloads
}

// GenerateData validates n generated payloads against the schema and
// returns the typed record data.
func (k *TestKit) GenerateData(s *schema.Schema, n int) ([]record.Data, error) {
	payloads := k.GenerateRawPayloads(n)
	datas := make([]record.Data, 0, n)

	for i, raw := range payloads {
		data, failures := validation.ValidateRecord(s, raw)
		if len(failures) > 0 {
			return nil, fmt.Errorf("generated payload %d failed validation: %v", i, failures[0])
		}
		datas = append(datas, data)
	}

	return datas, nil
}
