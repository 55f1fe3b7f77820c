package pricing

import "testing"

func TestExtractInputs_DepthFirstTraversal(t *testing.T) {
	def := &ServiceDefinition{
		Templates: []Template{
			{
				ID: "default",
				Cards: []Card{
					{
						InputSection: InputSection{
							Components: []*Component{
								{ID: "outer", Type: "numericInput"},
								{
									Type: "group",
									Components: []*Component{
										{ID: "nested", Type: "dropdown"},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	fields := ExtractInputs(def)
	if len(fields) != 2 {
		t.Fatalf("expected 2 input fields, got %d: %+v", len(fields), fields)
	}
	if fields[0].ID != "outer" || fields[1].ID != "nested" {
		t.Errorf("expected depth-first order [outer, nested], got [%s, %s]", fields[0].ID, fields[1].ID)
	}
}

func TestExtractInputs_SkipsNodesWithoutID(t *testing.T) {
	def := &ServiceDefinition{
		Templates: []Template{
			{
				Cards: []Card{
					{
						InputSection: InputSection{
							Components: []*Component{
								{Type: "group"},
								{ID: "realInput", Type: "numericInput"},
							},
						},
					},
				},
			},
		},
	}

	fields := ExtractInputs(def)
	if len(fields) != 1 || fields[0].ID != "realInput" {
		t.Fatalf("expected only realInput extracted, got %+v", fields)
	}
}

func TestExtractInputs_EmitsEveryClosedInputType(t *testing.T) {
	def := &ServiceDefinition{
		Templates: []Template{
			{
				Cards: []Card{
					{
						InputSection: InputSection{
							Components: []*Component{
								{ID: "a", Type: "numericInput"},
								{ID: "b", Type: "dropdown"},
								{ID: "c", Type: "frequency"},
								{ID: "d", Type: "fileSize"},
								{ID: "e", Type: "radioTiles"},
								{ID: "f", Type: "pricingStrategy"},
							},
						},
					},
				},
			},
		},
	}

	fields := ExtractInputs(def)
	if len(fields) != 6 {
		t.Fatalf("expected all 6 input nodes extracted regardless of type, got %d: %+v", len(fields), fields)
	}
}

func TestGetSchema_LoaderLayoutCarriesAdvisory(t *testing.T) {
	def := &ServiceDefinition{ServiceCode: "group", Layout: "loader"}
	fetcher := NewFetcher(0)
	schema := GetSchema(fetcher, "https://example.test", def)
	if schema.Advisory == "" {
		t.Error("expected advisory for loader-layout service, got none")
	}
}
