package validation

// schemaURL names the compiled stats schema inside the compiler
const schemaURL = "https://guildstats.local/user_stats.schema.json"

// Error messages
const (
	ErrMsgBuildSchema     = "failed to build stats schema: %w"
	ErrMsgCompileSchema   = "failed to compile stats schema: %w"
	ErrMsgParseData       = "failed to parse stats JSON: %w"
	ErrMsgSchemaViolation = "schema validation failed:\n%s"
)

// statsSchema describes the on-disk stats database. The class enum is filled in from
// the domain's class list.
const statsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "propertyNames": {"minLength": 1},
  "additionalProperties": {
    "type": "object",
    "properties": {
      "attack": {"type": "integer", "minimum": 0},
      "defense": {"type": "integer", "minimum": 0},
      "accuracy": {"type": "integer", "minimum": 0},
      "characterClass": {"enum": %s},
      "legendarySkin": {"type": "boolean"},
      "legendaryFamiliar": {"type": "boolean"},
      "totalScore": {"type": "integer"},
      "updatedAt": {"type": "string"},
      "username": {"type": "string"},
      "displayName": {"type": "string"}
    }
  }
}`
