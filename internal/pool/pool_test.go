package pool

import (
	"sync"
	"testing"
)

func TestStringBuilderComesBackEmpty(t *testing.T) {
	sb := GetStringBuilder()
	sb.WriteString("窗口数: 3")
	PutStringBuilder(sb)

	again := GetStringBuilder()
	defer PutStringBuilder(again)
	if again.Len() != 0 {
		t.Errorf("pooled builder holds %q", again.String())
	}
}

func TestByteSliceSize(t *testing.T) {
	buf := GetByteSlice()
	if len(*buf) != ReadBufferSize {
		t.Fatalf("len = %d, want %d", len(*buf), ReadBufferSize)
	}
	PutByteSlice(buf)
}

func TestPutByteSliceDropsForeignSizes(t *testing.T) {
	short := make([]byte, 16)
	PutByteSlice(&short)
	PutByteSlice(nil)

	for range 4 {
		buf := GetByteSlice()
		if len(*buf) != ReadBufferSize {
			t.Fatalf("pool returned a %d byte slice", len(*buf))
		}
	}
}

func TestConcurrentPumps(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := GetByteSlice()
			(*buf)[0] = byte(i)
			PutByteSlice(buf)

			sb := GetStringBuilder()
			sb.WriteByte('x')
			PutStringBuilder(sb)
		}()
	}
	wg.Wait()
}

func BenchmarkStringBuilder(b *testing.B) {
	for b.Loop() {
		sb := GetStringBuilder()
		sb.WriteString("\x1b[38;2;0;0;128m 开始 \x1b[m")
		_ = sb.String()
		PutStringBuilder(sb)
	}
}
