package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"runtime"

	"github.com/gorgonia/rbm"
	"github.com/gorgonia/rbm/encoding/gif"
	"github.com/klauspost/cpuid/v2"
)

var (
	datapath = flag.String("data", "", "path to training data csv, one example per row")
	hidden   = flag.Int("hidden", 16, "number of hidden units")
	lr       = flag.Float64("lr", 0.1, "learning rate")
	batch    = flag.Int("batch", 10, "minibatch size")
	cdn      = flag.Int("cd", 1, "Gibbs steps per example (the k in CD-k)")
	momentum = flag.Float64("momentum", 0, "momentum decay. 0 disables momentum")
	epochs   = flag.Int("epochs", 10, "number of passes over the training data")
	threads  = flag.Int("threads", defaultThreads(), "worker goroutines per minibatch, at most the minibatch size. 0 runs sequentially")
	seed     = flag.Int64("seed", 0, "random seed. 0 seeds from the clock")
	gifpath  = flag.String("gif", "", "write an animation of the weights to this file")
	stats    = flag.String("stats", "", "write per-epoch statistics as csv to this file")
	plotpath = flag.String("plot", "", "plot the reconstruction error to this file")
	dotpath  = flag.String("dot", "", "write the trained model as a dot graph to this file")
	verbose  = flag.Bool("verbose", false, "log every minibatch")
)

func defaultThreads() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// workers caps the thread count at the minibatch size, since every worker needs at least one example.
func workers(threads, batch int) int {
	if threads > batch {
		return batch
	}
	return threads
}

func main() {
	flag.Parse()
	*threads = workers(*threads, *batch)
	if *datapath == "" {
		fmt.Fprintln(os.Stderr, "usage: cdtrain -data FILE [OPTION]...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	xs, err := readCSV(*datapath)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	conf := rbm.DefaultConf(xs.Shape()[1], *hidden)
	conf.Name = *datapath
	conf.LearningRate = *lr
	conf.BatchSize = *batch
	conf.CDn = *cdn
	conf.UseMomentum = *momentum > 0
	conf.MomentumDecay = *momentum
	conf.Seed = *seed
	conf.Verbose = *verbose

	var animation *os.File
	if *gifpath != "" {
		if animation, err = os.Create(*gifpath); err != nil {
			log.Fatal(err)
		}
		defer animation.Close()
		conf.OutputEncoder = gif.NewGifEncoder(animation, 4)
	}

	m, err := rbm.New(conf)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("%s on %d threads. %v examples of %d inputs, %d hidden units", cpuid.CPU.BrandName, *threads, xs.Shape()[0], conf.Inputs, conf.Outputs)
	if _, err = rbm.Train(m, xs, *epochs, *threads); err != nil {
		log.Fatalf("%+v", err)
	}
	fmt.Fprint(os.Stderr, m.ExecLog())

	if *stats != "" {
		if err = m.Statistics.Dump(*stats); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	if *plotpath != "" {
		if err = m.Statistics.Plot(*plotpath); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	if *dotpath != "" {
		if err = ioutil.WriteFile(*dotpath, []byte(m.ToDot()), 0644); err != nil {
			log.Fatal(err)
		}
	}
}
