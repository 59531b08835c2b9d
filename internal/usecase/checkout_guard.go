package usecase

import "sync"

// ユーザー単位のsingle-flightガード。
// 同一ユーザーの二重送信で外部注文が2つできるのを防ぐ。
// 獲得できなければ即rejectする（待たせない）。
type checkoutGuard struct {
	mu       sync.Mutex
	inFlight map[int64]struct{}
}

func newCheckoutGuard() *checkoutGuard {
	return &checkoutGuard{inFlight: make(map[int64]struct{})}
}

// TryAcquire はuserIDの獲得を試みる。trueなら必ずReleaseを呼ぶこと。
func (g *checkoutGuard) TryAcquire(userID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[userID]; busy {
		return false
	}
	g.inFlight[userID] = struct{}{}
	return true
}

// Release は行ごと消す。mapはユーザー数に比例して育たない。
func (g *checkoutGuard) Release(userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, userID)
}
