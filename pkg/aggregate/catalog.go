package aggregate

// Topic is one behavior survey score.
type Topic struct {
	Key  string
	Name string
}

// Group is a set of topics drawn together in one diverging chart.
type Group struct {
	// Key names the group in output filenames ("general", "aggression", "fear").
	Key   string
	Title string
	// Legend holds the low, middle and high response labels.
	Legend [3]string
	Topics []Topic
}

// Catalog is the static topic table. Group and topic order is chart order.
type Catalog struct {
	Groups   []Group
	Reversed map[string]bool
}

// DefaultReversed lists the topics whose response scale runs the other way.
var DefaultReversed = []string{"score_trainability"}

// DefaultCatalog returns the behavior topics of the survey.
func DefaultCatalog() Catalog {
	return Catalog{
		Groups: []Group{
			{
				Key:    "general",
				Title:  "GENERAL BEHAVIOR",
				Legend: [3]string{"Never", "Seldom", "Always"},
				Topics: []Topic{
					{"score_attachment_attention_seeking", "Attachment and Attention Seeking"},
					{"score_chasing", "Chasing"},
					{"score_energy", "Energy Level"},
					{"score_excitability", "Excitability"},
					{"score_separation_related_problems", "Separation Related Behavior"},
					{"score_trainability", "Trainability"},
				},
			},
			{
				Key:    "aggression",
				Title:  "AGGRESSION",
				Legend: [3]string{"No Aggression", "Moderate Aggression", "Severe Aggression"},
				Topics: []Topic{
					{"score_dog_rivalry", "Dog Rivalry"},
					{"score_dog_directed_aggression", "Dog-Directed Aggression"},
					{"score_owner_directed_aggression", "Owner-Directed Aggression"},
					{"score_stranger_directed_aggression", "Stranger-Directed Aggression"},
				},
			},
			{
				Key:    "fear",
				Title:  "FEAR / ANXIETY",
				Legend: [3]string{"No Fear/Anxiety", "Mild - Moderate Fear/Anxiety", "Extreme Fear/Anxiety"},
				Topics: []Topic{
					{"score_nonsocial_fear", "Nonsocial Fear"},
					{"score_dog_directed_fear", "Dog-Directed Fear"},
					{"score_stranger_directed_fear", "Stranger-Directed Fear"},
					{"score_touch_sensitivity", "Touch Sensitivity"},
				},
			},
		},
		Reversed: setOf(DefaultReversed),
	}
}

// WithReversed returns a copy of c with the reversed topic set replaced.
func (c Catalog) WithReversed(keys []string) Catalog {
	c.Reversed = setOf(keys)
	return c
}

// Group returns the group with the given key.
func (c Catalog) Group(key string) (Group, bool) {
	for _, g := range c.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Lookup returns the topic with the given key and the group it belongs to.
func (c Catalog) Lookup(key string) (Topic, Group, bool) {
	for _, g := range c.Groups {
		for _, t := range g.Topics {
			if t.Key == key {
				return t, g, true
			}
		}
	}
	return Topic{}, Group{}, false
}

func setOf(keys []string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
