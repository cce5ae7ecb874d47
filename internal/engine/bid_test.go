package engine

import (
	"strings"
	"testing"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

func TestStrategicBidReserveAndEffective(t *testing.T) {
	// $50 left, 5 spots: 4 spots keep the minimum, effective = 46
	rec := StrategicBid(50, 5, 40, 38, DefaultBidConfig())

	if rec.MandatoryReserve != 4 {
		t.Errorf("expected reserve 4, got %v", rec.MandatoryReserve)
	}
	if rec.EffectiveBudget != 46 {
		t.Errorf("expected effective budget 46, got %v", rec.EffectiveBudget)
	}
	// 40/46 is 87% of budget
	if rec.RiskLevel != models.RiskDangerous {
		t.Errorf("expected dangerous, got %s", rec.RiskLevel)
	}
	if rec.AbsoluteMax != 23 {
		t.Errorf("expected absolute max floor(46*0.5)=23, got %v", rec.AbsoluteMax)
	}
}

func TestStrategicBidSafe(t *testing.T) {
	// 10/99 is well under the safe share
	rec := StrategicBid(100, 2, 10, 10, DefaultBidConfig())

	if rec.RiskLevel != models.RiskSafe {
		t.Errorf("expected safe, got %s", rec.RiskLevel)
	}
	// Safe headroom: round(10 * 1.15) = 12
	if rec.RecommendedMax != 12 {
		t.Errorf("expected recommended max 12, got %v", rec.RecommendedMax)
	}
}

func TestStrategicBidAggressive(t *testing.T) {
	// 30/99 sits between the safe and aggressive shares
	rec := StrategicBid(100, 2, 30, 30, DefaultBidConfig())

	if rec.RiskLevel != models.RiskAggressive {
		t.Errorf("expected aggressive, got %s", rec.RiskLevel)
	}
	// Aggressive headroom: round(30 * 1.05) = 32
	if rec.RecommendedMax != 32 {
		t.Errorf("expected recommended max 32, got %v", rec.RecommendedMax)
	}
}

func TestStrategicBidClampedToEffective(t *testing.T) {
	// Adjusted value equals the whole effective budget: no headroom
	rec := StrategicBid(50, 5, 46, 40, DefaultBidConfig())

	if rec.RecommendedMax != 46 {
		t.Errorf("recommended max must clamp to effective budget, got %v", rec.RecommendedMax)
	}
}

func TestStrategicBidNoBudget(t *testing.T) {
	// $5 left, 6 spots: the reserve eats everything
	rec := StrategicBid(5, 6, 10, 10, DefaultBidConfig())

	if rec.EffectiveBudget != 0 {
		t.Errorf("expected effective budget 0, got %v", rec.EffectiveBudget)
	}
	if rec.RiskLevel != models.RiskDangerous {
		t.Errorf("expected dangerous, got %s", rec.RiskLevel)
	}
	if rec.RecommendedMax != 0 {
		t.Errorf("expected no recommendation, got %v", rec.RecommendedMax)
	}
}

func TestStrategicBidLastSpot(t *testing.T) {
	// One spot left: no reserve at all
	rec := StrategicBid(17, 1, 15, 15, DefaultBidConfig())

	if rec.MandatoryReserve != 0 {
		t.Errorf("last spot needs no reserve, got %v", rec.MandatoryReserve)
	}
	if rec.EffectiveBudget != 17 {
		t.Errorf("expected effective budget 17, got %v", rec.EffectiveBudget)
	}
}

func TestStrategicBidZeroSpots(t *testing.T) {
	rec := StrategicBid(10, 0, 5, 5, DefaultBidConfig())
	if rec.MandatoryReserve != 0 {
		t.Errorf("reserve must not go negative, got %v", rec.MandatoryReserve)
	}
}

func TestStrategicBidPremiumAdvice(t *testing.T) {
	// Adjusted above projected: advice names the market premium
	rec := StrategicBid(200, 2, 30, 22, DefaultBidConfig())

	if !strings.Contains(rec.Advice, "premium") {
		t.Errorf("expected premium note in advice, got %q", rec.Advice)
	}

	// No premium note when the market is not paying above projection
	rec = StrategicBid(200, 2, 20, 22, DefaultBidConfig())
	if strings.Contains(rec.Advice, "premium") {
		t.Errorf("unexpected premium note in advice: %q", rec.Advice)
	}
}

func TestStrategicBidShareBoundaries(t *testing.T) {
	cfg := DefaultBidConfig()

	// Exactly the safe share boundary tips into aggressive
	rec := StrategicBid(100, 1, 25, 25, cfg)
	if rec.RiskLevel != models.RiskAggressive {
		t.Errorf("share 0.25 should be aggressive, got %s", rec.RiskLevel)
	}

	// Exactly the aggressive share boundary tips into dangerous
	rec = StrategicBid(100, 1, 50, 50, cfg)
	if rec.RiskLevel != models.RiskDangerous {
		t.Errorf("share 0.50 should be dangerous, got %s", rec.RiskLevel)
	}
}
