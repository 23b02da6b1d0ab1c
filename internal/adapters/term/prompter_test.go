package term

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterReadsOneLinePerPrompt(t *testing.T) {
	var out bytes.Buffer
	prompter := NewPrompter(strings.NewReader("abc\n123456\n"), &out)

	first, err := prompter.Prompt(context.Background(), "enter the ticket:")
	require.NoError(t, err)
	assert.Equal(t, "abc", first)

	second, err := prompter.Prompt(context.Background(), "enter the code:")
	require.NoError(t, err)
	assert.Equal(t, "123456", second)

	assert.Contains(t, out.String(), "enter the ticket:")
	assert.Contains(t, out.String(), "enter the code:")
}

func TestPrompterTrimsCarriageReturn(t *testing.T) {
	prompter := NewPrompter(strings.NewReader("abc\r\n"), &bytes.Buffer{})

	answer, err := prompter.Prompt(context.Background(), "?")
	require.NoError(t, err)
	assert.Equal(t, "abc", answer)
}

func TestPrompterAcceptsFinalLineWithoutNewline(t *testing.T) {
	prompter := NewPrompter(strings.NewReader("abc"), &bytes.Buffer{})

	answer, err := prompter.Prompt(context.Background(), "?")
	require.NoError(t, err)
	assert.Equal(t, "abc", answer)
}

func TestPrompterChecksContextBeforeReading(t *testing.T) {
	prompter := NewPrompter(strings.NewReader("abc\n"), &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := prompter.Prompt(ctx, "?")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrompterSerializesConcurrentCallers(t *testing.T) {
	prompter := NewPrompter(strings.NewReader("one\ntwo\nthree\n"), &bytes.Buffer{})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		answers []string
	)

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			answer, err := prompter.Prompt(context.Background(), "?")
			assert.NoError(t, err)
			mu.Lock()
			answers = append(answers, answer)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Each caller gets exactly one whole line; no interleaving.
	assert.ElementsMatch(t, []string{"one", "two", "three"}, answers)
}
