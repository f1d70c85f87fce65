//go:build linux

package sysmem

import "testing"

func TestReadSnapshot(t *testing.T) {
	snap, err := ReadSnapshot()
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if snap.TotalBytes == 0 {
		t.Error("TotalBytes = 0, want > 0")
	}
	if snap.UsedBytes > snap.TotalBytes {
		t.Errorf("UsedBytes %d exceeds TotalBytes %d", snap.UsedBytes, snap.TotalBytes)
	}
}

func TestPeakRSSBytes(t *testing.T) {
	peak, err := PeakRSSBytes()
	if err != nil {
		t.Fatalf("PeakRSSBytes failed: %v", err)
	}
	if peak <= 0 {
		t.Errorf("PeakRSSBytes = %d, want > 0", peak)
	}
}
