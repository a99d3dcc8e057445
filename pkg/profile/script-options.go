package profile

type ScriptOptions struct {
	mode       Mode
	walkerPath string

	// Flags passed through to the walker's dump command.
	dedupFrames bool
	rawFrames   bool
}

type ScriptOption func(*Script)

func WithScriptMode(mode Mode) ScriptOption {
	return func(s *Script) {
		s.mode = mode
	}
}

func WithScriptWalkerPath(walkerPath string) ScriptOption {
	return func(s *Script) {
		s.walkerPath = walkerPath
	}
}

func WithScriptDedupFrames(dedup bool) ScriptOption {
	return func(s *Script) {
		s.dedupFrames = dedup
	}
}

func WithScriptRawFrames(raw bool) ScriptOption {
	return func(s *Script) {
		s.rawFrames = raw
	}
}
