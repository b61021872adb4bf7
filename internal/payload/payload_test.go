package payload

import (
	"errors"
	"testing"
)

const sample = `{
	"info": {
		"queueId": 420,
		"gameMode": "CLASSIC",
		"ranked": true,
		"nothing": null,
		"teams": [{"teamId": 100, "win": true}, {"teamId": 200, "win": false}],
		"perks": {"styles": "broken"}
	}
}`

func TestParseRejectsInvalidDocuments(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON for empty input, got %v", err)
	}
	if _, err := Parse([]byte(`{"info":`)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON for truncated input, got %v", err)
	}

	_, err := Parse([]byte(`[1,2,3]`))
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected TypeError for a top-level array, got %v", err)
	}
	if typeErr.Got != "array" {
		t.Errorf("expected got=array, got %s", typeErr.Got)
	}
}

func TestScalarAccessors(t *testing.T) {
	root, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	info := root.Get("info")

	queue, ok, err := info.Get("queueId").Int()
	if err != nil || !ok || queue != 420 {
		t.Errorf("queueId = %d, %v, %v", queue, ok, err)
	}

	mode, ok, err := info.Get("gameMode").String()
	if err != nil || !ok || mode != "CLASSIC" {
		t.Errorf("gameMode = %q, %v, %v", mode, ok, err)
	}

	ranked, ok, err := info.Get("ranked").Bool()
	if err != nil || !ok || !ranked {
		t.Errorf("ranked = %v, %v, %v", ranked, ok, err)
	}
}

func TestMissingAndNullFallBackToDefaults(t *testing.T) {
	root, _ := Parse([]byte(sample))
	info := root.Get("info")

	for _, key := range []string{"missing", "nothing"} {
		if info.Get(key).Present() {
			t.Errorf("%s should not be present", key)
		}
		v, err := info.Get(key).IntOr(7)
		if err != nil || v != 7 {
			t.Errorf("IntOr on %s = %d, %v", key, v, err)
		}
		s, err := info.Get(key).StringOr("Unknown")
		if err != nil || s != "Unknown" {
			t.Errorf("StringOr on %s = %q, %v", key, s, err)
		}
	}

	deep, err := root.Get("info", "objectives", "baron", "kills").IntOr(0)
	if err != nil || deep != 0 {
		t.Errorf("deep missing path = %d, %v", deep, err)
	}

	var zero Node
	if zero.Get("anything").Present() {
		t.Error("zero node must never be present")
	}
}

func TestWrongTypeIsAnError(t *testing.T) {
	root, _ := Parse([]byte(sample))
	info := root.Get("info")

	_, err := info.Get("gameMode").IntOr(0)
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if typeErr.Path != "$.info.gameMode" {
		t.Errorf("unexpected path %q", typeErr.Path)
	}

	if _, err := info.Get("perks", "styles").Array(); err == nil {
		t.Error("expected error when an array field holds a string")
	}
}

func TestArray(t *testing.T) {
	root, _ := Parse([]byte(sample))

	teams, err := root.Get("info", "teams").Array()
	if err != nil {
		t.Fatalf("Array() error = %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}

	id, _ := teams[1].Get("teamId").IntOr(0)
	if id != 200 {
		t.Errorf("expected teamId 200, got %d", id)
	}
	if teams[1].Path() != "$.info.teams[1]" {
		t.Errorf("unexpected path %q", teams[1].Path())
	}

	win, err := root.Get("info", "teams", 0, "win").BoolOr(false)
	if err != nil || !win {
		t.Errorf("indexed path win = %v, %v", win, err)
	}

	none, err := root.Get("info", "participants").Array()
	if err != nil || len(none) != 0 {
		t.Errorf("absent array = %v, %v", none, err)
	}
}
