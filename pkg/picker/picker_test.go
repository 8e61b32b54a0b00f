package picker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/geometry"
)

type stubDriver struct {
	choices []int
	err     error
	asked   []SelectConfig
	infos   []string
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.asked = append(s.asked, cfg)
	if s.err != nil {
		return 0, s.err
	}
	if len(s.choices) == 0 {
		return cfg.DefaultIndex, nil
	}
	choice := s.choices[0]
	s.choices = s.choices[1:]
	return choice, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func examples() *dataset.Dataset {
	return dataset.New(
		dataset.Entry{Name: "koch"},
		dataset.Entry{Name: "dragon"},
		dataset.Entry{Name: "plant"},
	)
}

func TestExamplePreselectsCurrent(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{}
	p := New(WithPromptDriver(driver))

	got, err := p.Example(context.Background(), geometry.FamilyLines, examples(), "dragon")
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if got != "dragon" {
		t.Fatalf("got %q, want dragon", got)
	}
	if diff := cmp.Diff([]string{"koch", "dragon", "plant"}, driver.asked[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"rendering l/dragon"}, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestExampleChoiceAndErrors(t *testing.T) {
	t.Parallel()

	p := New(WithPromptDriver(&stubDriver{choices: []int{2}}))
	got, err := p.Example(context.Background(), geometry.FamilyLines, examples(), "")
	if err != nil || got != "plant" {
		t.Fatalf("got %q, %v", got, err)
	}

	if _, err := p.Example(context.Background(), geometry.FamilyLines, dataset.New(), ""); !errors.Is(err, ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}

	aborted := New(WithPromptDriver(&stubDriver{err: ErrAborted}))
	if _, err := aborted.Example(context.Background(), geometry.FamilyLines, examples(), ""); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}

	bad := New(WithPromptDriver(&stubDriver{choices: []int{7}}))
	if _, err := bad.Example(context.Background(), geometry.FamilyLines, examples(), ""); err == nil {
		t.Fatalf("expected an error for an out of range choice")
	}
}

func TestFamily(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{choices: []int{1}}
	p := New(WithPromptDriver(driver), WithPageSize(4))

	got, err := p.Family(context.Background(), geometry.Families(), geometry.FamilyLines)
	if err != nil || got != geometry.FamilyFill {
		t.Fatalf("got %q, %v", got, err)
	}
	if cfg := driver.asked[0]; cfg.PageSize != 4 || cfg.Options[0] != "L-System" {
		t.Fatalf("unexpected prompt %+v", cfg)
	}

	single, err := p.Family(context.Background(), []geometry.Family{geometry.FamilyFill}, "")
	if err != nil || single != geometry.FamilyFill {
		t.Fatalf("single family should not prompt: %q, %v", single, err)
	}
	if len(driver.asked) != 1 {
		t.Fatalf("expected one prompt, got %d", len(driver.asked))
	}
	if _, err := p.Family(context.Background(), nil, ""); !errors.Is(err, ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
}
