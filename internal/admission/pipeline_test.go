package admission

import (
	"context"
	"testing"

	"tokenScope/internal/model"
	"tokenScope/internal/verify"
)

type fakeVolume struct {
	calls  int
	result verify.Result
}

func (f *fakeVolume) Check(_ context.Context, _ string, _ float64) verify.Result {
	f.calls++
	return f.result
}

type fakeSafety struct {
	enabled bool
	calls   int
	result  verify.Result
}

func (f *fakeSafety) Enabled() bool { return f.enabled }

func (f *fakeSafety) Check(_ context.Context, _ string) verify.Result {
	f.calls++
	return f.result
}

func pass() verify.Result {
	return verify.Result{Verdict: verify.Accepted}
}

func fail(reason string) verify.Result {
	return verify.Result{Verdict: verify.RejectedByPolicy, Reason: reason}
}

func candidate() model.TokenCandidate {
	return model.TokenCandidate{
		TokenAddress: "0xA",
		ChainID:      "solana",
		Developer:    "dev1",
	}
}

func pairWith(liquidity, price, volume float64) model.PairInfo {
	return model.PairInfo{
		PriceUSD:  model.FlexFloat(price),
		Liquidity: model.PairLiquidity{USD: model.FlexFloat(liquidity)},
		Volume:    model.PairVolume{H1: model.FlexFloat(volume)},
	}
}

func TestCoinBlacklistShortCircuits(t *testing.T) {
	volume := &fakeVolume{result: pass()}
	safety := &fakeSafety{enabled: true, result: pass()}
	pipeline := NewPipeline(Config{CoinBlacklist: []string{"0xA"}}, volume, safety, nil)

	decision, _ := pipeline.Evaluate(context.Background(), candidate(), pairWith(20000, 0.01, 10))
	if decision.Admitted {
		t.Fatalf("blacklisted coin should be rejected")
	}
	if decision.Stage != StageCoinBlacklist {
		t.Fatalf("stage mismatch: %s", decision.Stage)
	}
	if volume.calls != 0 || safety.calls != 0 {
		t.Fatalf("verifiers must not run after blacklist rejection: volume=%d safety=%d", volume.calls, safety.calls)
	}
}

func TestDevBlacklistCaseInsensitive(t *testing.T) {
	volume := &fakeVolume{result: pass()}
	pipeline := NewPipeline(Config{DevBlacklist: []string{"RUG_DEV1"}}, volume, &fakeSafety{}, nil)

	cand := candidate()
	cand.Developer = "Rug_Dev1"

	decision, _ := pipeline.Evaluate(context.Background(), cand, pairWith(20000, 0.01, 10))
	if decision.Admitted || decision.Stage != StageDevBlacklist {
		t.Fatalf("expected dev blacklist rejection, got %+v", decision)
	}
	if volume.calls != 0 {
		t.Fatalf("volume verifier must not run after dev blacklist rejection")
	}
}

func TestLiquidityFloorBeforeVerification(t *testing.T) {
	volume := &fakeVolume{result: pass()}
	pipeline := NewPipeline(Config{MinLiquidityUSD: 10000}, volume, &fakeSafety{}, nil)

	decision, _ := pipeline.Evaluate(context.Background(), candidate(), pairWith(5000, 0.01, 10))
	if decision.Admitted || decision.Stage != StageLiquidity {
		t.Fatalf("expected liquidity rejection, got %+v", decision)
	}
	if volume.calls != 0 {
		t.Fatalf("verification must not run after liquidity rejection")
	}
}

func TestPriceBand(t *testing.T) {
	cases := []struct {
		name  string
		price float64
		admit bool
	}{
		{"below floor", 0.00001, false},
		{"at floor", 0.0001, true},
		{"inside band", 0.01, true},
		{"at ceiling", 10.0, true},
		{"above ceiling", 11.0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pipeline := NewPipeline(Config{
				MinPriceUSD: 0.0001,
				MaxPriceUSD: 10.0,
			}, &fakeVolume{result: pass()}, &fakeSafety{}, nil)

			decision, _ := pipeline.Evaluate(context.Background(), candidate(), pairWith(20000, tc.price, 10))
			if decision.Admitted != tc.admit {
				t.Fatalf("admit mismatch for price %v: %+v", tc.price, decision)
			}
			if !tc.admit && decision.Stage != StagePriceBand {
				t.Fatalf("stage mismatch: %s", decision.Stage)
			}
		})
	}
}

func TestZeroMaxPriceMeansNoCeiling(t *testing.T) {
	pipeline := NewPipeline(Config{}, &fakeVolume{result: pass()}, &fakeSafety{}, nil)

	decision, _ := pipeline.Evaluate(context.Background(), candidate(), pairWith(20000, 1e9, 10))
	if !decision.Admitted {
		t.Fatalf("unset ceiling should not reject: %+v", decision)
	}
}

func TestVolumeRejectionStopsSafety(t *testing.T) {
	safety := &fakeSafety{enabled: true, result: pass()}
	pipeline := NewPipeline(Config{}, &fakeVolume{result: fail("suspicious volume")}, safety, nil)

	decision, _ := pipeline.Evaluate(context.Background(), candidate(), pairWith(20000, 0.01, 10))
	if decision.Admitted || decision.Stage != StageVolume {
		t.Fatalf("expected volume rejection, got %+v", decision)
	}
	if safety.calls != 0 {
		t.Fatalf("safety must not run after volume rejection")
	}
}

func TestSafetyIsHardGate(t *testing.T) {
	pipeline := NewPipeline(Config{}, &fakeVolume{result: pass()}, &fakeSafety{enabled: true, result: fail("bad status")}, nil)

	decision, _ := pipeline.Evaluate(context.Background(), candidate(), pairWith(20000, 0.01, 10))
	if decision.Admitted || decision.Stage != StageSafety {
		t.Fatalf("expected safety rejection, got %+v", decision)
	}
}

func TestDisabledSafetyIsSkipped(t *testing.T) {
	safety := &fakeSafety{enabled: false, result: fail("would reject")}
	pipeline := NewPipeline(Config{}, &fakeVolume{result: pass()}, safety, nil)

	decision, _ := pipeline.Evaluate(context.Background(), candidate(), pairWith(20000, 0.01, 10))
	if !decision.Admitted {
		t.Fatalf("disabled safety verifier should be skipped: %+v", decision)
	}
	if safety.calls != 0 {
		t.Fatalf("disabled safety verifier must not be called")
	}
}

func TestAdmissionBuildsSnapshot(t *testing.T) {
	pipeline := NewPipeline(Config{MinLiquidityUSD: 10000}, &fakeVolume{result: pass()}, &fakeSafety{}, nil)

	decision, snap := pipeline.Evaluate(context.Background(), candidate(), pairWith(20000, 0.01, 10))
	if !decision.Admitted {
		t.Fatalf("expected admission, got %+v", decision)
	}
	if snap.TokenAddress != "0xA" || snap.ChainID != "solana" || snap.Developer != "dev1" {
		t.Fatalf("snapshot identity mismatch: %+v", snap)
	}
	if snap.PriceUSD != 0.01 || snap.Liquidity != 20000 || snap.VolumeUSD != 10 {
		t.Fatalf("snapshot numerics mismatch: %+v", snap)
	}
	if snap.Timestamp.IsZero() {
		t.Fatalf("snapshot timestamp should be set")
	}
}
