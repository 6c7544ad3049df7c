package document

import (
	"strings"
	"testing"
	"time"

	"sakkanal_backend/internal/scenarios/matching"

	"github.com/google/uuid"
)

// French grouping uses a (narrow) no-break space; compare on plain spaces.
func plainSpaces(s string) string {
	return strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Pack Énergie Confort":     "pack-energie-confort",
		"  IA prédictive -- 360° ": "ia-predictive-360",
		"Économique":               "economique",
		"!!!":                      "rapport",
		"":                         "rapport",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 5, 4, 9, 7, 3, 0, time.UTC)
	if got := FileName("Pack Confort", at, FormatPDF); got != "pack-confort-20260504-090703.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestQRDataURI(t *testing.T) {
	uri, err := QRDataURI("https://sakkanal.sn/contact")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(uri), "data:image/png;base64,") {
		t.Fatalf("unexpected uri prefix %q", string(uri)[:30])
	}
}

func TestGenerate(t *testing.T) {
	budget := 25000000.0
	in := Input{
		Client: Client{CompanyName: "Sonatel SA", ContactName: "Awa Ndiaye"},
		Answers: matching.Answers{
			SiteType:          "usine",
			ElectricityBill:   500000,
			InstallationPower: 250,
			ZonesToMonitor:    []string{"Production", "Climatisation"},
			SpecificNeeds:     []string{"Réduction des coûts"},
			Budget:            &budget,
		},
		Scenario: matching.Scenario{
			ID:                uuid.New(),
			Name:              "Pack Confort",
			Category:          matching.CategoryStandard,
			EstimatedSavings:  15,
			EquipmentLifespan: 10,
		},
		GeneratedAt: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	}

	doc, err := NewGenerator("https://sakkanal.sn/").Generate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FileName != "pack-confort-20260504-120000.html" {
		t.Fatalf("unexpected file name %q", doc.FileName)
	}
	if !strings.HasPrefix(doc.ContentType, "text/html") {
		t.Fatalf("unexpected content type %q", doc.ContentType)
	}

	body := plainSpaces(string(doc.Body))
	for _, want := range []string{
		"Sonatel SA",
		"Usine",
		"Production, Climatisation",
		"75 000 FCFA",    // monthly: 500 000 x 15%
		"900 000 FCFA",   // annual
		"9 000 000 FCFA", // lifetime over 10 years
		"25 000 000 FCFA",
		"https://sakkanal.sn/contact",
		"data:image/png;base64,",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected report to contain %q", want)
		}
	}
	if strings.Contains(body, "Email</td>") {
		t.Fatal("empty client fields must be omitted")
	}
}

func TestGenerate_EscapesClientInput(t *testing.T) {
	in := Input{
		Client:   Client{CompanyName: "<script>alert(1)</script>"},
		Scenario: matching.Scenario{Name: "Pack"},
	}
	doc, err := NewGenerator("http://localhost").Generate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(doc.Body), "<script>alert") {
		t.Fatal("expected client input to be escaped")
	}
}
