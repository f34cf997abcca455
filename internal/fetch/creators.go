package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
)

// creatorsDefaultRev pins the leaderboard dataset revision fetched when the
// URL template carries a {rev} placeholder and no explicit revision is given.
const creatorsDefaultRev = "main"

// CreatorsFetcher counts creators and their templates from a git-hosted
// leaderboard dataset served as a raw JSON file.
type CreatorsFetcher struct {
	// URLTemplate is the raw-file URL, optionally with a {rev} placeholder
	// for the git revision.
	URLTemplate string
	Rev         string
	Doer        contract.Doer
}

type creatorRecord struct {
	Name      string   `json:"name"`
	Templates []string `json:"templates"`
}

func (f *CreatorsFetcher) Family() schema.Family {
	return schema.CreatorsFamily
}

func (f *CreatorsFetcher) Fetch(ctx context.Context) (*schema.DataPoint, error) {
	rev := f.Rev
	if rev == "" {
		rev = creatorsDefaultRev
	}
	url := strings.ReplaceAll(f.URLTemplate, "{rev}", rev)

	var records []creatorRecord
	if err := getJSON(ctx, f.Doer, url, nil, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("creators dataset %s is empty: %w", url, contract.ErrNotFound)
	}

	templates := 0
	for _, rec := range records {
		templates += len(rec.Templates)
	}

	return &schema.DataPoint{
		Date:      today(),
		Creators:  schema.IntPtr(len(records)),
		Templates: schema.IntPtr(templates),
		Source:    schema.SourceCreatorsRepo,
	}, nil
}
