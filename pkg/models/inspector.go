package models

import "time"

// Availability is the inspector's current assignment readiness.
type Availability string

const (
	AvailabilityAvailable Availability = "AVAILABLE"
	AvailabilityBusy      Availability = "BUSY"
	AvailabilityOnLeave   Availability = "ON_LEAVE"
)

// Inspector is a government-authorized verifier, identified by wallet address.
type Inspector struct {
	Address         string       `json:"address"`
	Name            string       `json:"name"`
	Specializations []Category   `json:"specializations"`
	Department      string       `json:"department"`
	EmployeeID      string       `json:"employeeId"`
	Jurisdiction    string       `json:"jurisdiction"`
	ExperienceYears int          `json:"experienceYears"`
	Availability    Availability `json:"availability"`
	Active          bool         `json:"active"`
	RegisteredAt    time.Time    `json:"registeredAt"`
	CasesAssigned   []string     `json:"casesAssigned"`
}

// HasSpecialization reports whether the inspector lists the given category.
func (i *Inspector) HasSpecialization(c Category) bool {
	for _, s := range i.Specializations {
		if s == c {
			return true
		}
	}
	return false
}

// Reputation tracks an inspector's voting history and derived credibility.
// Only the verification engine mutates this, and only at finalization.
type Reputation struct {
	TotalVotes        int     `json:"totalVotes"`
	ConsensusMatches  int     `json:"consensusMatches"`
	OutlierCount      int     `json:"outlierCount"`
	ConsistencyScore  float64 `json:"consistencyScore"` // matches / total
	CredibilityWeight float64 `json:"credibilityWeight"`
}

// NewReputation returns the starting reputation for a freshly registered inspector.
func NewReputation() Reputation {
	return Reputation{ConsistencyScore: 1.0, CredibilityWeight: 1.0}
}

// RecordVote folds one finalized reveal into the reputation:
// once total_votes>=3 the weight becomes max(0.1, 1 - 0.5*outlier_rate).
func (r *Reputation) RecordVote(matchedConsensus bool) {
	r.TotalVotes++
	if matchedConsensus {
		r.ConsensusMatches++
	} else {
		r.OutlierCount++
	}
	if r.TotalVotes > 0 {
		r.ConsistencyScore = round3(float64(r.ConsensusMatches) / float64(r.TotalVotes))
	}
	if r.TotalVotes >= 3 {
		outlierRate := float64(r.OutlierCount) / float64(r.TotalVotes)
		weight := 1.0 - outlierRate*0.5
		if weight < 0.1 {
			weight = 0.1
		}
		r.CredibilityWeight = round3(weight)
	}
}

func round3(v float64) float64 {
	const scale = 1000.0
	if v >= 0 {
		return float64(int64(v*scale+0.5)) / scale
	}
	return float64(int64(v*scale-0.5)) / scale
}
