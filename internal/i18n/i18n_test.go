package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "CourseNotFound"); got != "Course not found." {
		t.Errorf("T(CourseNotFound) = %q", got)
	}
	if got := T(ctx, "CertificateTitle"); got != "Certificate of Completion" {
		t.Errorf("T(CertificateTitle) = %q", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	if got := T(ctx, "CertificateTitle"); got != "Сертификат об окончании" {
		t.Errorf("T(CertificateTitle) = %q", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "ModulesCompleted", 1); got != "1 module completed" {
		t.Errorf("Tp(ModulesCompleted, 1) = %q", got)
	}
	if got := Tp(ctx, "ModulesCompleted", 3); got != "3 modules completed" {
		t.Errorf("Tp(ModulesCompleted, 3) = %q", got)
	}
	if got := Tp(ctx, "AnswerCount", 2); got != "Answer all 2 questions before submitting." {
		t.Errorf("Tp(AnswerCount, 2) = %q", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Td(ctx, "CertificateID", map[string]any{"ID": "abc"}); got != "Certificate ID: abc" {
		t.Errorf("Td(CertificateID) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestFallbackWithoutLocalizer(t *testing.T) {
	initLang(t, "en")

	if got := T(context.Background(), "ModuleLocked"); got != "Complete the previous module to unlock this one." {
		t.Errorf("T(ModuleLocked) = %q", got)
	}
}

func TestMiddlewareHonorsAcceptLanguage(t *testing.T) {
	initLang(t, "en")

	var got string
	h := Middleware("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = T(r.Context(), "CourseNotFound")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "Курс не найден." {
		t.Errorf("expected Russian translation, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "Course not found." {
		t.Errorf("expected English fallback, got %q", got)
	}
}
