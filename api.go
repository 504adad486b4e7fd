package kyss

import "context"

// Schema interprets a parsed Value and produces a typed result. Match
// returns Issues describing every violation it can attribute to the value;
// paths inside the Issues are JSON Pointers rooted at the matched value.
type Schema interface {
	Match(ctx context.Context, v Value) (any, error)
}

// Match applies s to an already parsed value.
func Match(ctx context.Context, s Schema, v Value) (any, error) {
	if s == nil {
		return nil, singleIssue(CodeParseError, "nil schema")
	}
	if v == nil {
		return nil, singleIssue(CodeParseError, "nil value")
	}
	return s.Match(ctx, v)
}

// MatchBytes parses data and matches the resulting tree against s.
func MatchBytes(ctx context.Context, s Schema, data []byte) (any, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Match(ctx, s, v)
}

// MatchString is MatchBytes for string input.
func MatchString(ctx context.Context, s Schema, input string) (any, error) {
	return MatchBytes(ctx, s, []byte(input))
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Code: code, Message: msg})
}
