// Package catalog loads the immutable course catalog.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/pavelanni/introto/internal/model"
)

//go:embed courses.json
var defaultCatalog []byte

var (
	// ErrCourseNotFound is returned when a course ID is not in the catalog.
	ErrCourseNotFound = errors.New("course not found")
	// ErrInvalidCatalog is returned when catalog data fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Catalog is a read-only, ordered collection of courses.
type Catalog struct {
	courses []model.Course
	byID    map[int64]int
}

// CourseImport is the JSON shape of a catalog entry.
type CourseImport struct {
	ID               int64            `json:"id" validate:"required,gt=0"`
	Title            string           `json:"title" validate:"required"`
	Category         string           `json:"category"`
	Segment          model.Segment    `json:"segment" validate:"omitempty,oneof=flagship micro wip"`
	Duration         string           `json:"duration"`
	Level            string           `json:"level"`
	Price            int              `json:"price" validate:"gte=0"`
	Rating           float64          `json:"rating" validate:"gte=0,lte=5"`
	Description      string           `json:"description"`
	LearningOutcomes []string         `json:"learningOutcomes"`
	Instructor       model.Instructor `json:"instructor"`
	Modules          []ModuleImport   `json:"modules" validate:"required,min=1,dive"`
}

// ModuleImport is the JSON shape of a module.
type ModuleImport struct {
	ID int64 `json:"id" validate:"required,gt=0"`
	// Position defaults to the module's index in the file (1-based) when omitted.
	Position    int           `json:"position" validate:"gte=0"`
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Content     ContentImport `json:"content"`
	Quiz        QuizImport    `json:"quiz"`
}

// ContentImport is the JSON shape of module content.
type ContentImport struct {
	Type     model.ContentKind `json:"type" validate:"required,oneof=video audio pdf"`
	URL      string            `json:"url" validate:"required"`
	Duration string            `json:"duration,omitempty"`
}

// QuizImport is the JSON shape of a quiz.
type QuizImport struct {
	Questions []QuestionImport `json:"questions" validate:"required,min=1,dive"`
}

// QuestionImport is the JSON shape of a question.
type QuestionImport struct {
	ID            int64    `json:"id"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" validate:"gte=0,lt=4"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// LoadFile reads and validates a catalog JSON file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Load(data)
}

// Load parses and validates catalog JSON.
func Load(data []byte) (*Catalog, error) {
	var imports []CourseImport
	if err := json.Unmarshal(data, &imports); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrInvalidCatalog, err)
	}
	return New(imports)
}

// New validates course imports and builds a catalog from them.
func New(imports []CourseImport) (*Catalog, error) {
	validate := validator.New()
	c := &Catalog{byID: make(map[int64]int, len(imports))}
	for _, ci := range imports {
		if err := validate.Struct(ci); err != nil {
			return nil, fmt.Errorf("%w: course %d: %v", ErrInvalidCatalog, ci.ID, err)
		}
		if _, dup := c.byID[ci.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate course id %d", ErrInvalidCatalog, ci.ID)
		}
		course, err := buildCourse(ci)
		if err != nil {
			return nil, err
		}
		c.byID[course.ID] = len(c.courses)
		c.courses = append(c.courses, course)
	}
	return c, nil
}

func buildCourse(ci CourseImport) (model.Course, error) {
	course := model.Course{
		ID:               ci.ID,
		Title:            ci.Title,
		Category:         ci.Category,
		Segment:          ci.Segment,
		Duration:         ci.Duration,
		Level:            ci.Level,
		Price:            ci.Price,
		Rating:           ci.Rating,
		Description:      ci.Description,
		LearningOutcomes: ci.LearningOutcomes,
		Instructor:       ci.Instructor,
	}

	ids := make(map[int64]bool, len(ci.Modules))
	positions := make(map[int]bool, len(ci.Modules))
	for i, mi := range ci.Modules {
		pos := mi.Position
		if pos == 0 {
			pos = i + 1
		}
		if ids[mi.ID] {
			return model.Course{}, fmt.Errorf("%w: course %d: duplicate module id %d", ErrInvalidCatalog, ci.ID, mi.ID)
		}
		if positions[pos] {
			return model.Course{}, fmt.Errorf("%w: course %d: duplicate module position %d", ErrInvalidCatalog, ci.ID, pos)
		}
		ids[mi.ID] = true
		positions[pos] = true

		questions := make([]model.Question, 0, len(mi.Quiz.Questions))
		for _, qi := range mi.Quiz.Questions {
			questions = append(questions, model.Question{
				ID:            qi.ID,
				Prompt:        qi.Question,
				Options:       qi.Options,
				CorrectAnswer: qi.CorrectAnswer,
			})
		}

		course.Modules = append(course.Modules, model.Module{
			ID:               mi.ID,
			SequencePosition: pos,
			Title:            mi.Title,
			Description:      mi.Description,
			Content:          buildContent(mi.Content),
			Quiz:             model.Quiz{Questions: questions},
		})
	}

	sort.SliceStable(course.Modules, func(i, j int) bool {
		return course.Modules[i].SequencePosition < course.Modules[j].SequencePosition
	})
	return course, nil
}

// buildContent expects an already validated content type.
func buildContent(ci ContentImport) model.Content {
	switch ci.Type {
	case model.KindAudio:
		return model.Audio{Locator: ci.URL, Duration: ci.Duration}
	case model.KindPDF:
		return model.PDF{Locator: ci.URL}
	default:
		return model.Video{Locator: ci.URL, Duration: ci.Duration}
	}
}

// Get returns the course with the given ID.
func (c *Catalog) Get(courseID int64) (model.Course, error) {
	i, ok := c.byID[courseID]
	if !ok {
		return model.Course{}, fmt.Errorf("%w: %d", ErrCourseNotFound, courseID)
	}
	return c.courses[i], nil
}

// List returns all courses in catalog order.
func (c *Catalog) List() []model.Course {
	out := make([]model.Course, len(c.courses))
	copy(out, c.courses)
	return out
}
