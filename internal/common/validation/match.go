package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"artmatch/internal/matching"
	"artmatch/internal/models"
)

const maxRating = 5.0

// RankRequestSchema describes the inline ranking payload.
const RankRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["project", "curator", "candidates"],
  "definitions": {
    "tags": {"type": "array", "items": {"type": "string"}},
    "money": {
      "type": "object",
      "required": ["min", "max"],
      "properties": {"min": {"type": "integer", "minimum": 0}, "max": {"type": "integer", "minimum": 0}}
    },
    "date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
  },
  "properties": {
    "project": {
      "type": "object",
      "required": ["id", "categories", "budget", "timeline", "requiredExperience"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "categories": {"$ref": "#/definitions/tags"},
        "budget": {"$ref": "#/definitions/money"},
        "timeline": {
          "type": "object",
          "required": ["preparationStart", "eventEnd"],
          "properties": {
            "preparationStart": {"$ref": "#/definitions/date"},
            "eventEnd": {"$ref": "#/definitions/date"}
          }
        },
        "requiredExperience": {"type": "string"}
      }
    },
    "curator": {
      "type": "object",
      "required": ["id", "preferredStyles"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "preferredStyles": {"$ref": "#/definitions/tags"}
      }
    },
    "candidates": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "genres", "workStyles", "experienceYears", "rating", "isLocal", "budget", "availability"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "genres": {"$ref": "#/definitions/tags"},
          "primaryGenre": {"type": "string"},
          "workStyles": {"$ref": "#/definitions/tags"},
          "experienceYears": {"type": "integer", "minimum": 0},
          "rating": {"type": "number", "minimum": 0, "maximum": 5},
          "isLocal": {"type": "boolean"},
          "budget": {"$ref": "#/definitions/money"},
          "availability": {
            "type": "object",
            "required": ["start", "end"],
            "properties": {"start": {"$ref": "#/definitions/date"}, "end": {"$ref": "#/definitions/date"}}
          }
        }
      }
    },
    "audienceModel": {
      "type": "object",
      "additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}
    },
    "topN": {"type": "integer", "minimum": 0}
  }
}`

// ValidatePayload checks raw JSON against RankRequestSchema, decodes it and
// runs the semantic checks. The request is only usable when the result is valid.
func ValidatePayload(raw []byte) (*models.RankRequest, *ValidationResult, error) {
	vr, err := ValidateSchema(RankRequestSchema, raw)
	if err != nil {
		return nil, nil, err
	}
	if !vr.Valid {
		return nil, vr, nil
	}

	var req models.RankRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, nil, fmt.Errorf("failed to decode rank request: %w", err)
	}
	return &req, ValidateRequest(&req), nil
}

// ValidateRequest runs the semantic checks on an already decoded request.
func ValidateRequest(req *models.RankRequest) *ValidationResult {
	vr := newResult()
	vr.merge("project", ValidateProject(req.Project))
	vr.merge("curator", ValidateCurator(req.Curator))
	for i, c := range req.Candidates {
		vr.merge(fmt.Sprintf("candidates[%d]", i), ValidateCandidate(c))
	}
	vr.merge("audienceModel", ValidateAudienceModel(req.AudienceModel))
	if req.TopN < 0 {
		vr.add("topN", "MINIMUM_VIOLATION", "must not be negative")
	}
	return vr
}

func checkRange(vr *ValidationResult, field string, r models.MoneyRange) {
	if r.Min < 0 {
		vr.add(field+".min", "MINIMUM_VIOLATION", "must not be negative")
	}
	if r.Min > r.Max {
		vr.add(field, "INVALID_RANGE", "min %d exceeds max %d", r.Min, r.Max)
	}
}

func checkDates(vr *ValidationResult, field, startField, start, endField, end string) {
	s, errS := time.Parse(models.DateLayout, start)
	if errS != nil {
		vr.add(field+"."+startField, "INVALID_DATE", "expected %s", models.DateLayout)
	}
	e, errE := time.Parse(models.DateLayout, end)
	if errE != nil {
		vr.add(field+"."+endField, "INVALID_DATE", "expected %s", models.DateLayout)
	}
	if errS == nil && errE == nil && e.Before(s) {
		vr.add(field, "INVALID_RANGE", "%s is before %s", endField, startField)
	}
}

func ValidateCandidate(a models.ArtistRecord) *ValidationResult {
	vr := newResult()
	if a.ID == "" {
		vr.add("id", "REQUIRED_FIELD_MISSING", "required field missing")
	}
	if a.ExperienceYears < 0 {
		vr.add("experienceYears", "MINIMUM_VIOLATION", "must not be negative")
	}
	if a.Rating < 0 || a.Rating > maxRating {
		vr.add("rating", "OUT_OF_RANGE", "must be between 0 and %.0f", maxRating)
	}
	checkRange(vr, "budget", a.Budget)
	checkDates(vr, "availability", "start", a.Availability.Start, "end", a.Availability.End)
	return vr
}

func ValidateProject(p models.ProjectRecord) *ValidationResult {
	vr := newResult()
	if p.ID == "" {
		vr.add("id", "REQUIRED_FIELD_MISSING", "required field missing")
	}
	checkRange(vr, "budget", p.Budget)
	checkDates(vr, "timeline", "preparationStart", p.Timeline.PreparationStart, "eventEnd", p.Timeline.EventEnd)
	// Unknown experience bands are accepted and score a flat default.
	return vr
}

func ValidateCurator(c models.CuratorRecord) *ValidationResult {
	vr := newResult()
	if c.ID == "" {
		vr.add("id", "REQUIRED_FIELD_MISSING", "required field missing")
	}
	return vr
}

func ValidateAudienceModel(m map[string]float64) *ValidationResult {
	vr := newResult()
	genres := make([]string, 0, len(m))
	for genre := range m {
		genres = append(genres, genre)
	}
	sort.Strings(genres)

	seen := make(map[string]string, len(m))
	for _, genre := range genres {
		v := m[genre]
		tag := matching.NormalizeTag(genre)
		if tag == "" {
			vr.add("", "INVALID_KEY", "blank genre")
			continue
		}
		if first, dup := seen[tag]; dup {
			vr.add(genre, "INVALID_KEY", "duplicates genre %q after normalization", first)
			continue
		}
		seen[tag] = genre
		if v < 0 || v > 1 {
			vr.add(genre, "OUT_OF_RANGE", "popularity must be between 0 and 1")
		}
	}
	return vr
}
