package stats

// Result represents the outcome of a single trial from the point of view of
// the tested player.
type Result int

const (
	Win  Result = +1
	Draw Result = 0
	Loss Result = -1
)

// Results lists every Result in the order used by WDL triples.
var Results = [3]Result{Win, Draw, Loss}

// index maps the Result to its position in a wdl triple.
func (result Result) index() int {
	return 1 - int(result)
}

// String returns a string representation of the given Result.
func (result Result) String() string {
	switch result {
	case Win:
		return "1-0"
	case Draw:
		return "1/2-1/2"
	case Loss:
		return "0-1"
	default:
		return "?-?"
	}
}
