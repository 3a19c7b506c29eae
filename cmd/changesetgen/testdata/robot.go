package robot

//go:generate go run github.com/andreyvit/changeset/cmd/changesetgen -type Servo,Axis -output robot_changeset.go

type Servo struct {
	P    float32
	Rate uint32
}

type Axis struct {
	Servo Servo
	Limit float32

	debug string
	Cache []byte `changeset:"-"`
}

// The types below never generate; resolver tests request them to check
// the error paths.

type Bare struct {
	hidden int
}

type Sliced struct {
	Items []int
}

type Clash struct {
	Apply bool
}

type Shadow struct {
	Bits uint32
}

type Loop struct {
	Self Loop
}

type Embedded struct {
	Servo
}
