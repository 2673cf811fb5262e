package catalog

import (
	"errors"
	"testing"

	"github.com/pavelanni/introto/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	courses := c.List()
	if len(courses) != 6 {
		t.Fatalf("expected 6 courses, got %d", len(courses))
	}

	course, err := c.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if course.Title != "Data Science & Machine Learning" {
		t.Errorf("unexpected title %q", course.Title)
	}
	if len(course.Modules) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(course.Modules))
	}
	for i, m := range course.Modules {
		if m.SequencePosition != i+1 {
			t.Errorf("module %d: expected position %d, got %d", m.ID, i+1, m.SequencePosition)
		}
	}
	q := course.Modules[0].Quiz.Questions[1]
	if q.CorrectAnswer != 2 || q.Options[2] != "Python" {
		t.Errorf("unexpected second question: %+v", q)
	}
	v, ok := course.Modules[0].Content.(model.Video)
	if !ok {
		t.Fatalf("expected video content, got %T", course.Modules[0].Content)
	}
	if v.Duration != "45 min" {
		t.Errorf("expected duration '45 min', got %q", v.Duration)
	}
}

func TestGetNotFound(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	_, err = c.Get(9999)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestLoadOrdersByPosition(t *testing.T) {
	data := []byte(`[{
		"id": 7, "title": "Reordered",
		"modules": [
			{"id": 10, "position": 3, "title": "Last", "content": {"type": "pdf", "url": "l.pdf"},
			 "quiz": {"questions": [{"question": "q", "options": ["a","b","c","d"], "correctAnswer": 0}]}},
			{"id": 20, "position": 1, "title": "First", "content": {"type": "audio", "url": "f.mp3", "duration": "5 min"},
			 "quiz": {"questions": [{"question": "q", "options": ["a","b","c","d"], "correctAnswer": 3}]}}
		]
	}]`)
	c, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	course, _ := c.Get(7)
	if course.Modules[0].ID != 20 || course.Modules[1].ID != 10 {
		t.Fatalf("modules not ordered by position: %+v", course.Modules)
	}
	if _, ok := course.Modules[0].Content.(model.Audio); !ok {
		t.Errorf("expected audio content, got %T", course.Modules[0].Content)
	}
	if _, ok := course.Modules[1].Content.(model.PDF); !ok {
		t.Errorf("expected pdf content, got %T", course.Modules[1].Content)
	}
}

func TestLoadInvalid(t *testing.T) {
	quiz := `"quiz": {"questions": [{"question": "q", "options": ["a","b","c","d"], "correctAnswer": 0}]}`
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `[{`},
		{"no modules", `[{"id": 1, "title": "T", "modules": []}]`},
		{"missing title", `[{"id": 1, "modules": [{"id": 1, "title": "M", "content": {"type": "video", "url": "u"}, ` + quiz + `}]}]`},
		{"unknown content type", `[{"id": 1, "title": "T", "modules": [{"id": 1, "title": "M", "content": {"type": "slides", "url": "u"}, ` + quiz + `}]}]`},
		{"three options", `[{"id": 1, "title": "T", "modules": [{"id": 1, "title": "M", "content": {"type": "video", "url": "u"},
			"quiz": {"questions": [{"question": "q", "options": ["a","b","c"], "correctAnswer": 0}]}}]}]`},
		{"answer out of range", `[{"id": 1, "title": "T", "modules": [{"id": 1, "title": "M", "content": {"type": "video", "url": "u"},
			"quiz": {"questions": [{"question": "q", "options": ["a","b","c","d"], "correctAnswer": 4}]}}]}]`},
		{"empty quiz", `[{"id": 1, "title": "T", "modules": [{"id": 1, "title": "M", "content": {"type": "video", "url": "u"}, "quiz": {"questions": []}}]}]`},
		{"duplicate module id", `[{"id": 1, "title": "T", "modules": [
			{"id": 1, "title": "A", "content": {"type": "video", "url": "u"}, ` + quiz + `},
			{"id": 1, "title": "B", "content": {"type": "video", "url": "u"}, ` + quiz + `}]}]`},
		{"duplicate position", `[{"id": 1, "title": "T", "modules": [
			{"id": 1, "position": 2, "title": "A", "content": {"type": "video", "url": "u"}, ` + quiz + `},
			{"id": 2, "title": "B", "content": {"type": "video", "url": "u"}, ` + quiz + `}]}]`},
		{"duplicate course", `[
			{"id": 1, "title": "T", "modules": [{"id": 1, "title": "A", "content": {"type": "video", "url": "u"}, ` + quiz + `}]},
			{"id": 1, "title": "U", "modules": [{"id": 1, "title": "A", "content": {"type": "video", "url": "u"}, ` + quiz + `}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}
