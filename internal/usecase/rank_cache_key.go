package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

const (
	rankCachePrefix  = "assign:rank:"
	rankCachePattern = rankCachePrefix + "*"
)

type rankCacheKeyInput struct {
	Skills         []string `json:"skills"`
	EstimatedHours string   `json:"estimated_hours"`
	Team           string   `json:"team"`
	TopN           int      `json:"top_n"`
}

// RankCacheKey hashes the parts of a ranking request that influence the
// result. Task name, description and priority do not.
func RankCacheKey(in RankInput) string {
	skills := in.Task.SkillKeys()
	sort.Strings(skills)

	key := rankCacheKeyInput{
		Skills:         skills,
		EstimatedHours: strconv.FormatFloat(in.Task.EstimatedHours, 'f', -1, 64),
		Team:           strings.ToLower(strings.TrimSpace(in.Team)),
		TopN:           in.TopN,
	}

	b, _ := json.Marshal(key)
	sum := sha256.Sum256(b)
	return rankCachePrefix + hex.EncodeToString(sum[:])
}
