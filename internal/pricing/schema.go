package pricing

// ExtractInputs walks every template's every card's inputSection.components
// depth-first, collecting an InputField for every node that carries an id
// regardless of its type: numericInput, dropdown, frequency, fileSize,
// pricingStrategy, radioTiles, and any other input-shaped component all
// surface their value the same way once declared with an id.
func ExtractInputs(def *ServiceDefinition) []InputField {
	var fields []InputField
	for _, tmpl := range def.Templates {
		for _, card := range tmpl.Cards {
			walkInputComponents(card.InputSection.Components, &fields)
		}
	}
	return fields
}

func walkInputComponents(components []*Component, out *[]InputField) {
	for _, c := range components {
		if c == nil {
			continue
		}
		if c.ID != "" {
			*out = append(*out, componentToInputField(c))
		}
		if len(c.Components) > 0 {
			walkInputComponents(c.Components, out)
		}
	}
}

func componentToInputField(c *Component) InputField {
	field := InputField{
		ID:          c.ID,
		Label:       c.Label,
		Type:        c.EffectiveType(),
		Description: c.Description,
		Unit:        c.Unit,
		Options:     c.Options,
		UnitOptions: c.UnitOptions,
		RadioGroups: c.RadioGroups,
	}
	if len(c.DefaultValue) > 0 {
		var v interface{}
		if err := unmarshalLenient(c.DefaultValue, &v); err == nil {
			field.Default = v
		}
	} else if len(c.Value) > 0 {
		var v interface{}
		if err := unmarshalLenient(c.Value, &v); err == nil {
			field.Default = v
		}
	}
	if c.Unit != "" {
		field.DefaultUnit = c.Unit
	}
	return field
}

// GetSchema extracts the full, portable ServiceSchema for def, recursing
// into every declared sub-service. Sub-services that fail to resolve (fetch
// error, etc.) are represented by a schema carrying only an Advisory
// explaining the failure, rather than aborting the whole call — a caller
// configuring the parent service shouldn't be blocked by an unrelated
// sub-service outage.
func GetSchema(fetcher *Fetcher, serviceBaseURL string, def *ServiceDefinition) ServiceSchema {
	schema := ServiceSchema{
		ServiceCode: def.ServiceCode,
		ServiceName: def.ServiceName,
		Version:     def.Version,
		Layout:      def.Layout,
		Inputs:      ExtractInputs(def),
	}
	for _, tmpl := range def.Templates {
		schema.Templates = append(schema.Templates, TemplateInfo{ID: tmpl.ID, Title: tmpl.Title})
	}

	if def.Layout == "loader" {
		schema.Advisory = "this service is configured by loading an existing estimate, not by direct input; use load_estimate"
	}

	for _, sub := range def.SubServices {
		subURL := ServiceDefinitionURL(serviceBaseURL, sub.ServiceCode)
		subDef, err := fetcher.ServiceDefinition(subURL)
		if err != nil {
			schema.SubServices = append(schema.SubServices, ServiceSchema{
				ServiceCode: sub.ServiceCode,
				Advisory:    "failed to load sub-service schema: " + err.Error(),
			})
			continue
		}
		schema.SubServices = append(schema.SubServices, GetSchema(fetcher, serviceBaseURL, subDef))
	}

	return schema
}
