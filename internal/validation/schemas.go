package validation

// nonEmpty is a trimmed-required string with an upper bound
func nonEmpty(max int) map[string]interface{} {
	return map[string]interface{}{
		"type":      "string",
		"minLength": 1,
		"maxLength": max,
		"pattern":   `\S`,
	}
}

func optional(max int) map[string]interface{} {
	return map[string]interface{}{
		"type":      "string",
		"maxLength": max,
	}
}

var emailProperty = map[string]interface{}{
	"type":      "string",
	"minLength": 1,
	"maxLength": 254,
	"format":    "email",
}

var offerSchemaDoc = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name", "email", "phone", "address"},
	"properties": map[string]interface{}{
		"name":              nonEmpty(100),
		"email":             emailProperty,
		"phone":             nonEmpty(40),
		"address":           nonEmpty(300),
		"city":              optional(100),
		"state":             optional(50),
		"zip":               optional(20),
		"propertyType":      optional(100),
		"propertyCondition": optional(200),
		"timeline":          optional(100),
		"askingPrice":       optional(50),
		"message":           optional(5000),
	},
}

var contactSchemaDoc = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name", "email", "message"},
	"properties": map[string]interface{}{
		"name":    nonEmpty(100),
		"email":   emailProperty,
		"phone":   optional(40),
		"subject": optional(200),
		"message": nonEmpty(5000),
	},
}
