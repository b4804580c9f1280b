package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/raychel/internal/model"
)

// Resolver answers a single question
type Resolver interface {
	Resolve(ctx context.Context, question string) model.Resolution
}

// QuestionJob resolves one question of a batch
type QuestionJob struct {
	Index    int
	Question string
	Resolver Resolver
}

// Execute resolves the question unless the batch was cancelled first
func (j *QuestionJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &QuestionResult{Index: j.Index, Question: j.Question, Error: err}
	}
	return &QuestionResult{
		Index:      j.Index,
		Question:   j.Question,
		Resolution: j.Resolver.Resolve(ctx, j.Question),
	}
}

// QuestionResult is the outcome of one QuestionJob. Error is set only when
// the question was never resolved.
type QuestionResult struct {
	Index      int
	Question   string
	Resolution model.Resolution
	Error      error
}

// GetError returns the error from the result
func (r *QuestionResult) GetError() error {
	return r.Error
}

// BatchProcessor resolves many questions concurrently
type BatchProcessor struct {
	resolver    Resolver
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(resolver Resolver, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// ProcessQuestions resolves questions concurrently and returns one result
// per question, in input order.
func (b *BatchProcessor) ProcessQuestions(ctx context.Context, questions []string) []*QuestionResult {
	if len(questions) == 0 {
		return []*QuestionResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	out := make([]*QuestionResult, len(questions))
	for i, q := range questions {
		if !pool.Submit(&QuestionJob{Index: i, Question: q, Resolver: b.resolver}) {
			out[i] = &QuestionResult{Index: i, Question: q, Error: context.Cause(ctx)}
		}
	}

	for _, result := range pool.Wait() {
		r := result.(*QuestionResult)
		out[r.Index] = r
	}

	// jobs dropped by a cancelled pool never produced a result
	for i, r := range out {
		if r == nil {
			out[i] = &QuestionResult{Index: i, Question: questions[i], Error: context.Canceled}
		}
	}

	return out
}

// ProcessFile reads questions from a file and resolves them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QuestionResult, error) {
	questions, err := ReadQuestionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}

	return b.ProcessQuestions(ctx, questions), nil
}

// ReadQuestionsFromFile reads questions from a file (one per line)
func ReadQuestionsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadQuestions(file)
}

// ReadQuestions reads one question per line. Blank lines and lines starting
// with '#' are skipped, and repeated questions are kept once.
func ReadQuestions(r io.Reader) ([]string, error) {
	var questions []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			questions = append(questions, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return questions, nil
}
