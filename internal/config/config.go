// Package config loads the bot's configuration surface: a default.cfg read
// first, then overlaid by the positional CLI config path (ghost.cfg by
// default), both in the legacy flat "key = value" format rather than YAML.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Realm holds one bnet/bnetN_* configuration block.
type Realm struct {
	Server         string `mapstructure:"server"`
	Alias          string `mapstructure:"alias"`
	CDKeyROC       string `mapstructure:"cdkeyroc"`
	CDKeyTFT       string `mapstructure:"cdkeytft"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	FirstChannel   string `mapstructure:"firstchannel"`
	RootAdmin      string `mapstructure:"rootadmin"`
	Locale         uint32 `mapstructure:"locale"`
	BNLSServer     string `mapstructure:"bnlsserver"`
	BNLSPort       int    `mapstructure:"bnlsport"`
	BNLSWardenCookie uint32 `mapstructure:"bnlswardencookie"`
	PasswordHashType string `mapstructure:"passwordhashtype"`
	PvPGN          bool   `mapstructure:"custom_pvpgn"`
}

// Autohost holds the autohost_* block.
type Autohost struct {
	MaxGames        int    `mapstructure:"maxgames"`
	StartPlayers    int    `mapstructure:"startplayers"`
	GameName        string `mapstructure:"gamename"`
	Owner           string `mapstructure:"owner"`
	RandomMapType   string `mapstructure:"randommap_type"` // none|random|list
	RandomMapList   string `mapstructure:"randommap_list"`
}

// Config is the fully typed configuration surface.
type Config struct {
	BotTFT    bool `mapstructure:"bot_tft"`

	BotHostPort      int    `mapstructure:"bot_hostport"`
	BotReconnect     bool   `mapstructure:"bot_reconnect"`
	BotReconnectPort int    `mapstructure:"bot_reconnectport"`
	BotBindAddress   string `mapstructure:"bot_bindaddress"`

	BotMaxGames       int `mapstructure:"bot_maxgames"`
	BotLobbyTimeLimit int `mapstructure:"bot_lobbytimelimit"`
	BotLatency        int `mapstructure:"bot_latency"`
	BotSyncLimit      int `mapstructure:"bot_synclimit"`

	BotCommandTrigger string `mapstructure:"bot_commandtrigger"`
	BotLanguage       string `mapstructure:"bot_language"`
	BotWar3Path       string `mapstructure:"bot_war3path"`
	BotMapCFGPath     string `mapstructure:"bot_mapcfgpath"`
	BotMapPath        string `mapstructure:"bot_mappath"`
	BotSaveGamePath   string `mapstructure:"bot_savegamepath"`
	BotReplayPath     string `mapstructure:"bot_replaypath"`
	BotSaveReplays    bool   `mapstructure:"bot_savereplays"`

	BotVirtualHostName      string `mapstructure:"bot_virtualhostname"`
	BotHideIPAddresses      bool   `mapstructure:"bot_hideipaddresses"`
	BotCheckMultipleIPUsage bool   `mapstructure:"bot_checkmultipleipusage"`

	BotSpoofChecks        bool `mapstructure:"bot_spoofchecks"`
	BotRequireSpoofChecks bool `mapstructure:"bot_requirespoofchecks"`
	BotReserveAdmins      bool `mapstructure:"bot_reserveadmins"`
	BotRefreshMessages    bool `mapstructure:"bot_refreshmessages"`
	BotAutoLock           bool `mapstructure:"bot_autolock"`
	BotAutoSave           bool `mapstructure:"bot_autosave"`

	BotAllowDownloads    bool `mapstructure:"bot_allowdownloads"`
	BotPingDuringDownloads bool `mapstructure:"bot_pingduringdownloads"`
	BotMaxDownloaders    int  `mapstructure:"bot_maxdownloaders"`
	BotMaxDownloadSpeed  int  `mapstructure:"bot_maxdownloadspeed"`

	BotLCPings       bool `mapstructure:"bot_lcpings"`
	BotAutoKickPing  int  `mapstructure:"bot_autokickping"`

	BotVoteStartAllowed    bool `mapstructure:"bot_votestartallowed"`
	BotVoteStartPlayers    int  `mapstructure:"bot_votestartplayers"`
	BotVoteStartPercentage int  `mapstructure:"bot_votestartpercentage"`

	BotVoteKickAllowed    bool `mapstructure:"bot_votekickallowed"`
	BotVoteKickPercentage int  `mapstructure:"bot_votekickpercentage"`

	BotBanMethod       string `mapstructure:"bot_banmethod"`
	BotIPBlacklistFile string `mapstructure:"bot_ipblacklistfile"`
	BotMOTDFile        string `mapstructure:"bot_motdfile"`
	BotGameLoadedFile  string `mapstructure:"bot_gameloadedfile"`
	BotGameOverFile    string `mapstructure:"bot_gameoverfile"`

	TCPNoDelay          bool   `mapstructure:"tcp_nodelay"`
	BotMatchmakingMethod string `mapstructure:"bot_matchmakingmethod"`
	BotMapGameType      uint32 `mapstructure:"bot_mapgametype"`

	Autohost Autohost `mapstructure:"-"`
	Realms   []Realm  `mapstructure:"-"`

	DBType string `mapstructure:"db_type"` // sqlite3|mysql
	DBName string `mapstructure:"db_name"`
	DBUser string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBHost string `mapstructure:"db_host"`

	UDPBroadcastTarget string `mapstructure:"udp_broadcasttarget"`
	UDPDontRoute       bool   `mapstructure:"udp_dontroute"`

	BotLog      string `mapstructure:"bot_log"`
	BotLogLevel string `mapstructure:"bot_loglevel"` // TRACE..FATAL
}

// maxVirtualHostNameLen truncates bot_virtualhostname.
const maxVirtualHostNameLen = 15

// Default returns a Config populated with the same defaults the original
// bot ships when a key is absent from both config files.
func Default() *Config {
	return &Config{
		BotHostPort:       6112,
		BotReconnect:      true,
		BotReconnectPort:  6113,
		BotMaxGames:       20,
		BotLobbyTimeLimit: 60,
		BotLatency:        50,
		BotSyncLimit:      50,
		BotCommandTrigger: "!",
		BotLanguage:       "language.cfg",
		BotMapPath:        "maps/",
		BotMapCFGPath:     "mapcfgs/",
		BotSaveGamePath:   "savegames/",
		BotReplayPath:     "replays/",
		DBType:            "sqlite3",
		DBName:            "ghost.dbg",
		BotLog:            "ghost.log",
		BotLogLevel:       "INFO",
		Autohost:          Autohost{RandomMapType: "none"},
	}
}

// Load reads defaultPath then overlays overridePath. Either file is
// silently skipped if it is absent (matching the teacher's "defaults if
// missing" posture), so a missing override path is not an error.
func Load(defaultPath, overridePath string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("properties")

	if err := mergeFile(v, defaultPath); err != nil {
		return nil, err
	}
	if err := mergeFile(v, overridePath); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Realms = parseRealms(v)
	cfg.Autohost = parseAutohost(v, cfg.Autohost)

	if len(cfg.BotVirtualHostName) > maxVirtualHostNameLen {
		cfg.BotVirtualHostName = cfg.BotVirtualHostName[:maxVirtualHostNameLen]
	}
	if cfg.BotVoteStartPercentage > 100 {
		cfg.BotVoteStartPercentage = 100
	}
	if cfg.BotVoteKickPercentage > 100 {
		cfg.BotVoteKickPercentage = 100
	}

	return cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// parseRealms walks the flat key space for bnet_* and bnetN_* blocks. The
// unnumbered "bnet_*" prefix is realm 0; "bnetN_*" is realm N.
func parseRealms(v *viper.Viper) []Realm {
	byIndex := map[int]*Realm{}
	for _, key := range v.AllKeys() {
		if !strings.HasPrefix(key, "bnet") {
			continue
		}
		rest := strings.TrimPrefix(key, "bnet")
		idx := 0
		for len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9' {
			idx = idx*10 + int(rest[0]-'0')
			rest = rest[1:]
		}
		rest = strings.TrimPrefix(rest, "_")
		if rest == "" {
			continue
		}

		r, ok := byIndex[idx]
		if !ok {
			r = &Realm{}
			byIndex[idx] = r
		}
		applyRealmField(r, rest, v.GetString(key), v)
	}

	indices := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	realms := make([]Realm, 0, len(byIndex))
	for _, i := range indices {
		realms = append(realms, *byIndex[i])
	}
	return realms
}

// parseAutohost walks the flat key space for autohost_* keys. The
// properties format never nests these under an "autohost" map key, so
// v.Unmarshal never populates Config.Autohost on its own — this mirrors
// parseRealms's flattening for the analogous bnet*_field problem.
func parseAutohost(v *viper.Viper, defaults Autohost) Autohost {
	a := defaults
	for _, key := range v.AllKeys() {
		if !strings.HasPrefix(key, "autohost_") {
			continue
		}
		switch strings.TrimPrefix(key, "autohost_") {
		case "maxgames":
			a.MaxGames = v.GetInt(key)
		case "startplayers":
			a.StartPlayers = v.GetInt(key)
		case "gamename":
			a.GameName = v.GetString(key)
		case "owner":
			a.Owner = v.GetString(key)
		case "randommap_type":
			a.RandomMapType = v.GetString(key)
		case "randommap_list":
			a.RandomMapList = v.GetString(key)
		}
	}
	return a
}

func applyRealmField(r *Realm, field, raw string, v *viper.Viper) {
	switch field {
	case "server":
		r.Server = raw
	case "alias":
		r.Alias = raw
	case "cdkeyroc":
		r.CDKeyROC = raw
	case "cdkeytft":
		r.CDKeyTFT = raw
	case "username":
		r.Username = raw
	case "password":
		r.Password = raw
	case "firstchannel":
		r.FirstChannel = raw
	case "rootadmin":
		r.RootAdmin = raw
	case "bnlsserver":
		r.BNLSServer = raw
	case "passwordhashtype":
		r.PasswordHashType = raw
	case "custom_pvpgn":
		r.PvPGN = raw == "1" || strings.EqualFold(raw, "true")
	}
}
