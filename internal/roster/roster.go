// Package roster lists the twelve NPB clubs under the short names the schedule
// site uses, and resolves free-form user input to one of them.
package roster

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// League is Central or Pacific
type League string

const (
	Central League = "central"
	Pacific League = "pacific"
)

// Team is one NPB club
type Team struct {
	Name    string   `json:"name"` // as printed on the schedule page
	League  League   `json:"league"`
	Logo    string   `json:"logo"`
	Aliases []string `json:"aliases,omitempty"`
}

// LogoPath returns the path the logo is served under
func (t Team) LogoPath() string {
	return "/assets/logos/" + t.Logo
}

var teams = []Team{
	{Name: "巨人", League: Central, Logo: "logo_g_m.gif", Aliases: []string{"giants", "yomiuri", "読売"}},
	{Name: "阪神", League: Central, Logo: "logo_t_m.gif", Aliases: []string{"tigers", "hanshin"}},
	{Name: "中日", League: Central, Logo: "logo_d_m.gif", Aliases: []string{"dragons", "chunichi"}},
	{Name: "DeNA", League: Central, Logo: "logo_db_m.gif", Aliases: []string{"baystars", "yokohama", "横浜"}},
	{Name: "広島", League: Central, Logo: "logo_c_m.gif", Aliases: []string{"carp", "hiroshima"}},
	{Name: "ヤクルト", League: Central, Logo: "logo_s_m.gif", Aliases: []string{"swallows", "yakult"}},
	{Name: "オリックス", League: Pacific, Logo: "logo_b_m.gif", Aliases: []string{"buffaloes", "orix"}},
	{Name: "ソフトバンク", League: Pacific, Logo: "logo_h_m.gif", Aliases: []string{"hawks", "softbank"}},
	{Name: "楽天", League: Pacific, Logo: "logo_e_m.gif", Aliases: []string{"eagles", "rakuten"}},
	{Name: "ロッテ", League: Pacific, Logo: "logo_m_m.gif", Aliases: []string{"marines", "lotte"}},
	{Name: "西武", League: Pacific, Logo: "logo_l_m.gif", Aliases: []string{"lions", "seibu"}},
	{Name: "日本ハム", League: Pacific, Logo: "logo_f_m.gif", Aliases: []string{"fighters", "nipponham", "nippon-ham", "日ハム"}},
}

// minSimilarity is the Jaro-Winkler score a fuzzy match must reach
const minSimilarity = 0.85

// Teams returns every club, Central League first
func Teams() []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

// Names returns every club's schedule name
func Names() []string {
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = t.Name
	}
	return names
}

// Lookup finds a club by its exact schedule name
func Lookup(name string) (Team, bool) {
	for _, t := range teams {
		if t.Name == name {
			return t, true
		}
	}
	return Team{}, false
}

// Resolve maps user input to a club: exact name first, then a known alias,
// then the closest name or alias by Jaro-Winkler similarity.
func Resolve(input string) (Team, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Team{}, false
	}
	if t, ok := Lookup(input); ok {
		return t, true
	}

	key := strings.ToLower(input)
	for _, t := range teams {
		for _, alias := range t.Aliases {
			if alias == key {
				return t, true
			}
		}
	}

	var (
		best      Team
		bestScore float64
	)
	for _, t := range teams {
		for _, candidate := range append([]string{strings.ToLower(t.Name)}, t.Aliases...) {
			score := matchr.JaroWinkler(key, candidate, false)
			if score > bestScore {
				best, bestScore = t, score
			}
		}
	}
	if bestScore < minSimilarity {
		return Team{}, false
	}
	return best, true
}
