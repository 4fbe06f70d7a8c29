package app

import "datadash/internal/errors"

// ErrQuestionsDisabled is returned by Ask when no text generator is configured
var ErrQuestionsDisabled = errors.NotConfigured("question answering (set OPENAI_API_KEY)")
