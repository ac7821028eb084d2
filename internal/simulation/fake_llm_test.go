package simulation

import (
	"context"
	"sync/atomic"

	"virtual-patient-server/internal/llm"
)

var _ llm.Client = (*fakeLLM)(nil)

// fakeLLM records the last call and answers with CompleteFunc.
type fakeLLM struct {
	CompleteFunc func(ctx context.Context, systemPrompt string, transcript []llm.Message, opts llm.Options) (string, error)

	CallCount    int32
	LastPrompt   string
	LastMessages []llm.Message
	LastOptions  llm.Options
}

func (f *fakeLLM) Complete(ctx context.Context, systemPrompt string, transcript []llm.Message, opts llm.Options) (string, error) {
	atomic.AddInt32(&f.CallCount, 1)
	f.LastPrompt = systemPrompt
	f.LastMessages = transcript
	f.LastOptions = opts
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, systemPrompt, transcript, opts)
	}
	return "", nil
}

func replying(text string) *fakeLLM {
	return &fakeLLM{CompleteFunc: func(context.Context, string, []llm.Message, llm.Options) (string, error) {
		return text, nil
	}}
}
