// Package schemas embeds the JSON Schemas published with testgrade.
package schemas

import _ "embed"

// ResultSchemaJSON describes the decoded grade result published as the
// action's result output.
//
//go:embed result.schema.json
var ResultSchemaJSON string

// ConfigSchemaJSON describes .testgrade.yaml.
//
//go:embed config.schema.json
var ConfigSchemaJSON string
