package signal

import "github.com/dkeye/livedocs/internal/domain"

func asStrings(ids []domain.ClientID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
