package orchestrator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PhilippHeuer/ghostpp/internal/language"
)

// RandomMapMode selects how the autohost controller picks its map each
// time it creates a lobby.
type RandomMapMode string

const (
	RandomMapNone   RandomMapMode = "none"
	RandomMapRandom RandomMapMode = "random"
	RandomMapList   RandomMapMode = "list"
)

// autohostThrottle is the minimum interval between autohost attempts.
const autohostThrottle = 30 * time.Second

// AutohostConfig is the autohost_* policy configuration.
type AutohostConfig struct {
	NameTemplate       string
	MaxGames           int
	AutoStartThreshold int
	Owner              string
	RandomMode         RandomMapMode
	RandomList         string

	// MatchmakingEnabled mirrors bot_matchmakingmethod being configured;
	// it only takes effect when the chosen map also declares fixed player
	// settings.
	MatchmakingEnabled bool
}

// MapLoader loads a map by filename, used by the autohost controller's
// randomization modes. A thin seam over internal/mapselect so tests can
// substitute a fake without touching the filesystem.
type MapLoader interface {
	LoadMap(filename string) (Map, error)
	ListRandomCandidates() ([]string, error)
}

type autohostController struct {
	cfg AutohostConfig

	loader MapLoader
	rng    *rand.Rand

	lastAttempt  time.Time
	cachedMap    Map
	cachedMapSet bool
	disabled     bool
}

func newAutohostController(cfg AutohostConfig) *autohostController {
	return &autohostController{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetMapLoader wires the filesystem-backed map loader. Exposed so main can
// inject internal/mapselect after construction.
func (o *Orchestrator) SetMapLoader(loader MapLoader) {
	o.autohost.loader = loader
}

func (a *autohostController) configured() bool {
	return !a.disabled &&
		a.cfg.NameTemplate != "" &&
		a.cfg.MaxGames > 0 &&
		a.cfg.AutoStartThreshold > 0
}

// tick evaluates every autohost precondition each readiness epoch. The
// first failing precondition wins and the controller silently skips this
// tick without any chat noise.
func (a *autohostController) tick(o *Orchestrator) {
	if o.exitingNice.Load() || o.exiting.Load() {
		return
	}
	if !o.enabled.Load() {
		return
	}
	if o.HasCurrentLobby() {
		return
	}
	effectiveMax := a.cfg.MaxGames
	if o.maxGames < effectiveMax {
		effectiveMax = o.maxGames
	}
	if o.GameCount() >= effectiveMax {
		return
	}
	if !a.configured() {
		return
	}
	if !a.lastAttempt.IsZero() && time.Since(a.lastAttempt) < autohostThrottle {
		return
	}

	a.lastAttempt = time.Now()

	m, err := a.selectMap()
	if err != nil || m == nil {
		o.logger.Warn().Err(err).Msg("autohost: no map available, skipping tick")
		return
	}

	name := fmt.Sprintf("%s #%d", a.cfg.NameTemplate, o.HostCounter()+1)
	if len(name) > maxGameNameLen {
		o.logger.Warn().Str("name", name).Msg(o.catalog.Format(language.KeyAutohostDisabledNameTooLong))
		a.disabled = true
		a.cfg = AutohostConfig{}
		return
	}

	before := o.GameCount()
	o.CreateGame(m, VisibilityPublic, false, nil, name, a.cfg.Owner, "", nil, false)

	o.gamesMu.Lock()
	lobby := o.currentLobby
	o.gamesMu.Unlock()
	if lobby == nil && o.GameCount() == before {
		// CreateGame rejected silently from autohost's perspective; no
		// localized message is emitted because creatorRealm is nil.
		return
	}
	if lobby == nil {
		return
	}

	lobby.SetAutoStartPlayers(a.cfg.AutoStartThreshold)

	if a.cfg.MatchmakingEnabled && m.MatchmakingCategory() != "" {
		if m.HasFixedPlayerSettings() {
			lobby.EnableMatchmaking()
		} else {
			o.logger.Warn().Msg("autohost: matchmaking category requires fixed player settings, disabling for this lobby")
		}
	}
}

func (a *autohostController) selectMap() (Map, error) {
	switch a.cfg.RandomMode {
	case RandomMapNone, "":
		if a.cachedMapSet {
			return a.cachedMap, nil
		}
		return nil, fmt.Errorf("autohost: no cached map configured for randommap_type=none")

	case RandomMapRandom:
		if a.loader == nil {
			return nil, fmt.Errorf("autohost: no map loader configured")
		}
		candidates, err := a.loader.ListRandomCandidates()
		if err != nil || len(candidates) == 0 {
			return nil, fmt.Errorf("autohost: no maps found in map_path")
		}
		pick := candidates[a.rng.Intn(len(candidates))]
		m, err := a.loader.LoadMap(pick)
		if err != nil {
			return nil, err
		}
		a.cachedMap, a.cachedMapSet = m, true
		return m, nil

	case RandomMapList:
		names := splitCommaList(a.cfg.RandomList)
		if len(names) == 0 {
			return nil, fmt.Errorf("autohost: randommap_list is empty")
		}
		pick := names[a.rng.Intn(len(names))]
		if a.loader == nil {
			return nil, fmt.Errorf("autohost: no map loader configured")
		}
		m, err := a.loader.LoadMap(pick)
		if err != nil {
			return nil, err
		}
		a.cachedMap, a.cachedMapSet = m, true
		return m, nil

	default:
		return nil, fmt.Errorf("autohost: unknown randommap_type %q", a.cfg.RandomMode)
	}
}

func splitCommaList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
