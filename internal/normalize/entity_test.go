package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sanctionwatch/internal/sanction/models"
)

func TestInferEntityType(t *testing.T) {
	tests := []struct {
		name            string
		explicit        string
		recordName      string
		hasPersonFields bool
		want            models.EntityType
	}{
		{"explicit individual", "INDIVIDUAL", "ACME LLC", false, models.TypeIndividual},
		{"explicit eu person code", "P", "", false, models.TypeIndividual},
		{"explicit eu entity code", "E", "", false, models.TypeEntity},
		{"explicit vessel", "VESSEL", "", false, models.TypeVessel},
		{"explicit aircraft", "AIRCRAFT", "", false, models.TypeAircraft},
		{"company suffix", "", "Horizon Trading LLC", false, models.TypeEntity},
		{"company suffix lowercase", "", "horizon trading ltd", false, models.TypeEntity},
		{"vessel keyword", "", "PACIFIC TANKER 7", false, models.TypeVessel},
		{"company beats vessel", "", "OCEAN SHIPPING COMPANY", false, models.TypeEntity},
		{"person fields", "", "Ivan Petrov", true, models.TypeIndividual},
		{"nothing known", "", "Ivan Petrov", false, models.TypeUnknown},
		{"unrecognized explicit falls through", "XYZ", "ACME CORP", false, models.TypeEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferEntityType(tt.explicit, tt.recordName, tt.hasPersonFields))
		})
	}
}
