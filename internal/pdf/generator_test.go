package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lancebay/contracts-service/internal/model"
)

func TestGenerate(t *testing.T) {
	contract := model.Contract{
		ID:         uuid.New(),
		Title:      "Landing page build",
		Content:    "## Scope\n\nThree pages, responsive.\n",
		Amount:     1500,
		StartDate:  time.Now(),
		EndDate:    time.Now().AddDate(0, 1, 0),
		Status:     model.ContractStatusActive,
		Version:    3,
		Employer:   model.User{ID: uuid.New(), Email: "boss@example.com"},
		Freelancer: model.User{ID: uuid.New(), Email: "dev@example.com"},
	}

	content, err := NewGenerator().Generate(contract)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}
