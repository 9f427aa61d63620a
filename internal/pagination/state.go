package pagination

// Phase is the state of a trigger control
type Phase int

const (
	// PhaseIdle accepts activation
	PhaseIdle Phase = iota
	// PhaseLoading has a request in flight; activation is rejected
	PhaseLoading
	// PhaseExhausted is terminal until the filter changes or the list is refreshed
	PhaseExhausted
	// PhaseRetry follows a failed request; activation retries the same page
	PhaseRetry
)

// String returns a human-readable representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseExhausted:
		return "exhausted"
	case PhaseRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Labels holds the trigger texts shown for each state
type Labels struct {
	LoadMore  string `mapstructure:"load_more"`
	Loading   string `mapstructure:"loading"`
	EndOfList string `mapstructure:"end_of_list"`
	Retry     string `mapstructure:"retry"`
	Search    string `mapstructure:"search"`
	Searching string `mapstructure:"searching"`
	NoResults string `mapstructure:"no_results"`
}

// DefaultLabels returns the labels used by the catalog site
func DefaultLabels() Labels {
	return Labels{
		LoadMore:  "Ver mais",
		Loading:   "Carregando...",
		EndOfList: "Fim da lista",
		Retry:     "Erro - Tentar novamente",
		Search:    "Buscar",
		Searching: "Buscando...",
		NoResults: "Nenhum resultado encontrado.",
	}
}

// withDefaults fills empty labels from DefaultLabels
func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&l.LoadMore, d.LoadMore)
	fill(&l.Loading, d.Loading)
	fill(&l.EndOfList, d.EndOfList)
	fill(&l.Retry, d.Retry)
	fill(&l.Search, d.Search)
	fill(&l.Searching, d.Searching)
	fill(&l.NoResults, d.NoResults)
	return l
}

// Trigger is a snapshot of a trigger control
type Trigger struct {
	Phase    Phase
	Label    string
	Disabled bool
}

// State is a snapshot of the pagination and filter state
type State struct {
	CurrentPage int    // Last page requested, always >= 1
	Genres      string // Comma-joined genre ids of the active filter
	Stale       bool   // Grid does not reflect the current filter yet
}

// Outcome describes what Complete did with a response
type Outcome int

const (
	OutcomeAppended Outcome = iota
	OutcomeReplaced
	OutcomeExhausted
	OutcomeNoResults
	OutcomeFailed
	OutcomeStale
	OutcomeRejected
)

// String returns a human-readable representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeAppended:
		return "appended"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeNoResults:
		return "no results"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result reports the effect of a completed request
type Result struct {
	Outcome  Outcome
	Rendered int // Posters appended to the grid
	Skipped  int // Items without a poster
	Err      error
}
