package linescan_test

import (
	"fmt"
	"log"
	"os"

	"github.com/bob-anderson-ok/LineScanTraces/linescan"
	"gonum.org/v1/gonum/mat"
)

func Example() {
	// Three scan lines of six places; line i holds (i+1) * [1 .. 6].
	img := mat.NewDense(3, 6, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 6; j++ {
			img.Set(i, j, float64((i+1)*(j+1)))
		}
	}

	s, err := linescan.NewSession(img, linescan.SessionConfig{InitialWidth: 3})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s.Band(), s.Width())
	s.Commit(linescan.ButtonMiddle)

	s.PointerMoved(0.7, true)
	fmt.Println(s.Band())
	s.Commit(linescan.ButtonMiddle)

	if err := linescan.WriteTable(os.Stdout, s.Records()); err != nil {
		log.Fatal(err)
	}

	// Output:
	// [2,4) 3
	// [-1,1)
	// ,0,1
	// x0,2,-1
	// x1,4,1
	// 0,3.5,1
	// 1,7,2
	// 2,10.5,3
}

func ExampleComputeBand() {
	fmt.Println(linescan.ComputeBand(10, 1))
	fmt.Println(linescan.ComputeBand(10, 5))
	fmt.Println(linescan.ComputeBand(10, 4))
	// Output:
	// [10,11)
	// [8,12)
	// [9,11)
}
