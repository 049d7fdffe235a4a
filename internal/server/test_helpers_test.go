package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LumenResearchLab/margin/internal/annotations"
	"github.com/LumenResearchLab/margin/internal/papers"
	"github.com/LumenResearchLab/margin/internal/reviewers"
	"github.com/gin-gonic/gin"
)

const abstractText = "Quantum neural networks accelerate learning."

func init() {
	gin.SetMode(gin.TestMode)
}

type steppingClock struct {
	current time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *steppingClock) Now() time.Time {
	value := c.current
	c.current = c.current.Add(time.Second)
	return value
}

type sequentialIDProvider struct {
	next int
}

func (p *sequentialIDProvider) NewID() (string, error) {
	p.next++
	return fmt.Sprintf("id-%d", p.next), nil
}

type testEnv struct {
	router  http.Handler
	library *papers.Library
	store   *annotations.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	library := papers.NewLibrary()
	paperID := mustPaperID(t, "paper-1")
	err := library.Register(papers.Paper{
		ID:    paperID,
		Title: "Quantum Computing and Neural Networks",
		Versions: []papers.Version{
			{
				Label:      mustVersionLabel(t, "v1.0"),
				CreatedAt:  time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
				ChangeNote: "Initial submission",
				Sections: []papers.Section{
					{
						ID:   mustSectionID(t, "abs-1"),
						Kind: papers.SectionKindAbstract,
						Text: abstractText,
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	directory := reviewers.NewDirectory()
	err = directory.Register(reviewers.Profile{
		ID:          "u-emma",
		Name:        "Dr. Emma Chen",
		Initials:    "EC",
		Affiliation: "MIT",
		Verified:    true,
		Reputation:  89,
	})
	if err != nil {
		t.Fatalf("unexpected directory error: %v", err)
	}

	store, err := annotations.NewStore(annotations.StoreConfig{
		Library:    library,
		Directory:  directory,
		Clock:      newSteppingClock().Now,
		IDProvider: &sequentialIDProvider{},
	})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}

	router, err := NewHTTPHandler(Dependencies{
		Library:    library,
		Store:      store,
		Views:      annotations.NewViews(store),
		Dispatcher: NewEventDispatcher(),
	})
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	return &testEnv{router: router, library: library, store: store}
}

func (e *testEnv) perform(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	request := httptest.NewRequest(method, target, reader)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", recorder.Body.String(), err)
	}
}

func mustPaperID(t *testing.T, value string) papers.PaperID {
	t.Helper()
	id, err := papers.NewPaperID(value)
	if err != nil {
		t.Fatalf("unexpected paper id error: %v", err)
	}
	return id
}

func mustVersionLabel(t *testing.T, value string) papers.VersionLabel {
	t.Helper()
	label, err := papers.NewVersionLabel(value)
	if err != nil {
		t.Fatalf("unexpected version label error: %v", err)
	}
	return label
}

func mustSectionID(t *testing.T, value string) papers.SectionID {
	t.Helper()
	id, err := papers.NewSectionID(value)
	if err != nil {
		t.Fatalf("unexpected section id error: %v", err)
	}
	return id
}
