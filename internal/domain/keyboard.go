package domain

type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is a platform-neutral inline keyboard.
type Keyboard struct {
	Rows [][]Button
}

func (k *Keyboard) Row(buttons ...Button) {
	k.Rows = append(k.Rows, buttons)
}

func (k *Keyboard) Empty() bool {
	return k == nil || len(k.Rows) == 0
}
