package worker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/raychel/internal/model"
)

// mockResolver answers every question with its upper-cased text
type mockResolver struct {
	calls int32
	delay bool
}

func (m *mockResolver) Resolve(ctx context.Context, question string) model.Resolution {
	atomic.AddInt32(&m.calls, 1)
	if m.delay {
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	}
	return model.Resolution{
		Question: question,
		Answer:   strings.ToUpper(question),
		Category: model.CategoryOther,
		Tool:     model.ToolLLM,
	}
}

func TestBatchProcessor_ProcessQuestions(t *testing.T) {
	resolver := &mockResolver{delay: true}
	processor := NewBatchProcessor(resolver, 4)

	var questions []string
	for i := 0; i < 40; i++ {
		questions = append(questions, fmt.Sprintf("question %d", i))
	}

	results := processor.ProcessQuestions(context.Background(), questions)

	if len(results) != len(questions) {
		t.Fatalf("expected %d results, got %d", len(questions), len(results))
	}
	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %q: %v", res.Question, res.Error)
		}
		if res.Index != i || res.Question != questions[i] {
			t.Errorf("result %d out of order: index %d question %q", i, res.Index, res.Question)
		}
		if res.Resolution.Answer != strings.ToUpper(questions[i]) {
			t.Errorf("result %d answer = %q", i, res.Resolution.Answer)
		}
	}
	if n := atomic.LoadInt32(&resolver.calls); n != int32(len(questions)) {
		t.Errorf("expected %d resolutions, got %d", len(questions), n)
	}
}

func TestBatchProcessor_ProcessQuestions_Cancelled(t *testing.T) {
	resolver := &mockResolver{}
	processor := NewBatchProcessor(resolver, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessQuestions(ctx, []string{"a", "b", "c"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, res := range results {
		if !errors.Is(res.GetError(), context.Canceled) {
			t.Errorf("expected context.Canceled for %q, got %v", res.Question, res.Error)
		}
	}
	if n := atomic.LoadInt32(&resolver.calls); n != 0 {
		t.Errorf("expected no resolutions after cancel, got %d", n)
	}
}

func TestBatchProcessor_ProcessQuestions_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockResolver{}, 2)

	results := processor.ProcessQuestions(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "questions")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestReadQuestionsFromFile(t *testing.T) {
	path := writeTemp(t, `What is the capital of France?
# comment
weather in Tokyo
   
who won the ipl in 2016?   `)

	questions, err := ReadQuestionsFromFile(path)
	if err != nil {
		t.Fatalf("ReadQuestionsFromFile failed: %v", err)
	}

	expected := []string{"What is the capital of France?", "weather in Tokyo", "who won the ipl in 2016?"}
	if len(questions) != len(expected) {
		t.Fatalf("expected %d questions, got %d", len(expected), len(questions))
	}
	for i, q := range questions {
		if q != expected[i] {
			t.Errorf("expected %q at index %d, got %q", expected[i], i, q)
		}
	}
}

func TestReadQuestionsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadQuestionsFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadQuestions_Deduplication(t *testing.T) {
	questions, err := ReadQuestions(strings.NewReader("weather in Tokyo\nweather in Tokyo\n  weather in Tokyo\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 1 {
		t.Errorf("expected 1 question after deduplication, got %d", len(questions))
	}
}

func TestQuestionResult_GetError(t *testing.T) {
	r1 := &QuestionResult{Question: "q"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("cancelled")
	r2 := &QuestionResult{Question: "q", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTemp(t, "weather in Tokyo\nWhat is 2+2?\n# comment\n\nwho won the ipl in 2016?\n")

	processor := NewBatchProcessor(&mockResolver{}, 2)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockResolver{}, 2)

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := writeTemp(t, "")

	processor := NewBatchProcessor(&mockResolver{}, 2)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
