package gateway

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/user/vida-loka-geracoes/internal/types"
)

const (
	minTimeCost = 1
	maxTimeCost = 12
)

type rawFields map[string]json.RawMessage

// extractJSON strips code fences and surrounding prose from model output.
func extractJSON(text string) (string, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return "", NewError(KindEmpty, "empty response")
	}
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end == -1 || end <= start {
		return "", NewError(KindMalformed, "no JSON object found in response")
	}
	return clean[start : end+1], nil
}

func decodeObject(raw []byte) (rawFields, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	out := make(rawFields, len(fields))
	for k, v := range fields {
		out[snakeCase(k)] = v
	}
	return out, true
}

// snakeCase maps camelCase keys onto the snake_case wire names.
func snakeCase(key string) string {
	var sb strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// field decodes an optional field into dst. Missing, null or malformed
// values leave dst untouched.
func field[T any](fields rawFields, key string, dst *T) bool {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}

// drops collects the paths of optional values dropped while parsing.
type drops []string

func (d *drops) add(path string) {
	if d != nil {
		*d = append(*d, path)
	}
}

// fits reports whether {key: value} decodes into a T.
func fits[T any](key string, value json.RawMessage) bool {
	body, err := json.Marshal(map[string]json.RawMessage{key: value})
	if err != nil {
		return false
	}
	var probe T
	return json.Unmarshal(body, &probe) == nil
}

// delta decodes an optional change object into dst key by key. List
// values are decoded one entry at a time, so a bad entry costs only
// itself. Object entries have their keys snake-cased like the top level.
func delta[T any](fields rawFields, key string, dst **T, dropped *drops) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return
	}
	sub, ok := decodeObject(raw)
	if !ok {
		dropped.add(key)
		return
	}

	kept := make(map[string]json.RawMessage, len(sub))
	for k, v := range sub {
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			if fits[T](k, v) {
				kept[k] = v
			} else {
				dropped.add(key + "." + k)
			}
			continue
		}
		good := make([]json.RawMessage, 0, len(items))
		for i, item := range items {
			if obj, ok := decodeObject(item); ok {
				if normalized, err := json.Marshal(obj); err == nil {
					item = normalized
				}
			}
			single, err := json.Marshal([]json.RawMessage{item})
			if err != nil || !fits[T](k, single) {
				dropped.add(key + "." + k + "[" + strconv.Itoa(i) + "]")
				continue
			}
			good = append(good, item)
		}
		if len(good) > 0 {
			list, err := json.Marshal(good)
			if err == nil {
				kept[k] = list
			}
		}
	}
	if len(kept) == 0 && len(sub) > 0 {
		return
	}

	body, err := json.Marshal(kept)
	if err != nil {
		dropped.add(key)
		return
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		dropped.add(key)
		return
	}
	*dst = &v
}

func requiredString(fields rawFields, key string) (string, error) {
	var s string
	if !field(fields, key, &s) || strings.TrimSpace(s) == "" {
		return "", NewError(KindMalformed, "missing required field "+key)
	}
	return s, nil
}

// numberMap decodes an object of numbers, accepting numeric strings and
// dropping anything else.
func numberMap(raw json.RawMessage) (map[string]float64, bool) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil || values == nil {
		return nil, false
	}
	out := make(map[string]float64, len(values))
	for k, v := range values {
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			out[snakeCase(k)] = n
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if n, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(s), "+"), 64); err == nil {
				out[snakeCase(k)] = n
			}
		}
	}
	return out, true
}

func clampTimeCost(v int) int {
	if v == 0 {
		return 0
	}
	return max(minTimeCost, min(maxTimeCost, v))
}

// ParseChoice decodes a Choice payload. Only choice_text, outcome_text and
// stat_changes are required; malformed optional fields are dropped.
func ParseChoice(text string) (*types.Choice, error) {
	return parseChoice(text, nil)
}

func parseChoice(text string, dropped *drops) (*types.Choice, error) {
	body, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	fields, ok := decodeObject([]byte(body))
	if !ok {
		return nil, NewError(KindMalformed, "choice is not a JSON object")
	}
	return choiceFromFields(fields, dropped)
}

func choiceFromFields(fields rawFields, dropped *drops) (*types.Choice, error) {
	choiceText, err := requiredString(fields, "choice_text")
	if err != nil {
		return nil, err
	}
	outcomeText, err := requiredString(fields, "outcome_text")
	if err != nil {
		return nil, err
	}
	rawStats, ok := fields["stat_changes"]
	if !ok || isNull(rawStats) {
		return nil, NewError(KindMalformed, "missing required field stat_changes")
	}
	stats, ok := numberMap(rawStats)
	if !ok {
		return nil, NewError(KindMalformed, "stat_changes is not an object")
	}

	choice := &types.Choice{
		ChoiceText:  choiceText,
		OutcomeText: outcomeText,
		StatChanges: stats,
	}
	delta(fields, "asset_changes", &choice.AssetChanges, dropped)
	delta(fields, "relationship_changes", &choice.RelationshipChanges, dropped)
	delta(fields, "career_change", &choice.CareerChange, dropped)
	field(fields, "memory_gained", &choice.MemoryGained)
	delta(fields, "trait_changes", &choice.TraitChanges, dropped)
	delta(fields, "goal_changes", &choice.GoalChanges, dropped)
	delta(fields, "crafted_item_changes", &choice.CraftedItemChanges, dropped)
	delta(fields, "skill_changes", &choice.SkillChanges, dropped)
	delta(fields, "plot_changes", &choice.PlotChanges, dropped)
	delta(fields, "child_born", &choice.ChildBorn, dropped)
	field(fields, "is_pregnant_change", &choice.IsPregnantChange)
	field(fields, "plot_contribution", &choice.PlotContribution)
	field(fields, "special_ending", &choice.SpecialEnding)
	field(fields, "location_change", &choice.LocationChange)
	if field(fields, "time_cost_in_units", &choice.TimeCostInUnits) {
		choice.TimeCostInUnits = clampTimeCost(choice.TimeCostInUnits)
	}

	// An explicit null clears the active condition.
	if raw, ok := fields["health_condition_change"]; ok {
		if isNull(raw) {
			cleared := ""
			choice.HealthConditionChange = &cleared
		} else {
			field(fields, "health_condition_change", &choice.HealthConditionChange)
		}
	}
	if raw, ok := fields["career_change"]; ok && choice.CareerChange == nil && isNull(raw) {
		choice.CareerChange = &types.CareerChange{}
	}

	return choice, nil
}

// ParseEvent decodes an Event payload. Choices that fail validation are
// dropped; a multiple-choice event left without choices is malformed.
func ParseEvent(text string) (*types.Event, error) {
	return parseEvent(text, nil)
}

func parseEvent(text string, dropped *drops) (*types.Event, error) {
	body, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	fields, ok := decodeObject([]byte(body))
	if !ok {
		return nil, NewError(KindMalformed, "event is not a JSON object")
	}

	eventText, err := requiredString(fields, "event_text")
	if err != nil {
		return nil, err
	}
	event := &types.Event{EventText: eventText}

	var rawChoices []json.RawMessage
	field(fields, "choices", &rawChoices)
	for i, raw := range rawChoices {
		path := "choices[" + strconv.Itoa(i) + "]"
		choiceFields, ok := decodeObject(raw)
		if !ok {
			dropped.add(path)
			continue
		}
		var inner drops
		choice, err := choiceFromFields(choiceFields, &inner)
		if err != nil {
			dropped.add(path)
			continue
		}
		for _, p := range inner {
			dropped.add(path + "." + p)
		}
		event.Choices = append(event.Choices, *choice)
	}

	var eventType string
	field(fields, "type", &eventType)
	event.Type = types.EventType(strings.ToUpper(strings.TrimSpace(eventType)))
	if !event.Type.Valid() {
		if len(event.Choices) > 0 {
			event.Type = types.EventMultipleChoice
		} else {
			event.Type = types.EventOpenResponse
		}
	}
	if event.Type == types.EventMultipleChoice && len(event.Choices) == 0 {
		return nil, NewError(KindMalformed, "multiple choice event without valid choices")
	}

	field(fields, "is_epic", &event.IsEpic)
	field(fields, "is_world_event", &event.IsWorldEvent)
	field(fields, "mini_game_type", &event.MiniGameType)
	if field(fields, "time_cost_in_units", &event.TimeCostInUnits) {
		event.TimeCostInUnits = clampTimeCost(event.TimeCostInUnits)
	}
	return event, nil
}

// ParseWorldEvent decodes a world event payload.
func ParseWorldEvent(text string, year int) (*types.WorldEvent, error) {
	body, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	fields, ok := decodeObject([]byte(body))
	if !ok {
		return nil, NewError(KindMalformed, "world event is not a JSON object")
	}

	title, err := requiredString(fields, "title")
	if err != nil {
		return nil, err
	}
	description, err := requiredString(fields, "description")
	if err != nil {
		return nil, err
	}

	world := &types.WorldEvent{Year: year, Title: title, Description: description}
	if raw, ok := fields["effects"]; ok {
		if effects, ok := numberMap(raw); ok && len(effects) > 0 {
			world.Effects = effects
		}
	}
	return world, nil
}
