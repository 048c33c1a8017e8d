package engine

import (
	"math"
	"reflect"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/talgya/contagion-city/internal/agents"
	"github.com/talgya/contagion-city/internal/city"
)

func TestTransmissionScenario(t *testing.T) {
	Convey("Given one carrier sharing a street cell with ten susceptible agents", t, func() {
		pop := make([]agents.Agent, 100)
		for i := range pop {
			pos := city.Vec2{X: 150, Y: 150}
			if i <= 10 {
				pos = city.Vec2{X: 52, Y: 52}
			}
			pop[i] = streetAgent(i, pos)
		}
		sim := handSim(t, pop, func(p *Params) {
			p.InteractionRadius = 5
			p.InfectionRatePerVirus = 0.1
		})
		sim.Agents[0].Infected = true
		sim.Agents[0].Virus = 1

		Convey("The bucket holds the carrier's full load", func() {
			sim.aggregate()
			So(sim.BucketCount(), ShouldEqual, 2)
			So(sim.BucketOf(5).Count, ShouldEqual, 11)
			So(sim.BucketOf(5).Virus, ShouldEqual, 1.0)
			So(sim.BucketOf(50).Virus, ShouldEqual, 0.0)
		})

		Convey("Over 10,000 one-tick trials about a tenth of the exposed are infected", func() {
			const trials = 10000
			infected := 0
			for trial := 0; trial < trials; trial++ {
				for i := 1; i <= 10; i++ {
					sim.Agents[i].Infected = false
					sim.Agents[i].Virus = 0
				}
				sim.aggregate()
				sim.transmit(1)
				for i := 1; i <= 10; i++ {
					if sim.Agents[i].Infected {
						infected++
					}
				}
			}
			So(float64(infected)/(10*trials), ShouldAlmostEqual, 0.1, 0.005)

			Convey("And agents in other cells are never exposed", func() {
				for i := 11; i < len(sim.Agents); i++ {
					So(sim.Agents[i].Infected, ShouldBeFalse)
				}
			})
		})

		Convey("A zero dt never infects", func() {
			sim.aggregate()
			sim.transmit(0)
			So(Tally(sim.Agents).Infected, ShouldEqual, 1)
		})
	})
}

func TestAmbientInfectionScenario(t *testing.T) {
	Convey("Given 1000 never-exposed agents under background infection only", t, func() {
		sim := newTestSim(t, 1000, 11, func(p *Params) {
			p.AmbientRate = 0.01
			p.DiseaseTimeScale = 1
			p.InfectionRatePerVirus = 0
		})

		Convey("Nothing happens before the run starts", func() {
			for i := 0; i < 20; i++ {
				sim.Step(1)
			}
			So(Tally(sim.Agents).Healthy, ShouldEqual, 1000)
			So(sim.Time, ShouldEqual, 0.0)
		})

		Convey("After accumulating dt=100 roughly 1-1/e of them were infected", func() {
			sim.Start()
			for i := 0; i < 100; i++ {
				sim.Step(1)
			}
			So(sim.Time, ShouldEqual, 100.0)
			tally := Tally(sim.Agents)
			everInfected := tally.Infected + tally.Resistant
			expected := 1000 * (1 - math.Pow(0.99, 100))
			So(float64(everInfected), ShouldAlmostEqual, expected, 60.0)
		})
	})
}

func TestRecoveryScenario(t *testing.T) {
	Convey("Given a single infected agent with viral load 1", t, func() {
		sim := handSim(t, []agents.Agent{streetAgent(0, city.Vec2{X: 50, Y: 50})}, func(p *Params) {
			p.AntibodyReproductionRatePerVirus = 0.5
			p.VirusReproductionRate = 1
			p.AntibodyVirusKillRate = 1
			p.DiseaseTimeScale = 1
		})
		a := &sim.Agents[0]
		a.Infected = true
		a.Virus = 1

		Convey("After the first tick it is still infected at half load", func() {
			sim.Step(1)
			So(a.Infected, ShouldBeTrue)
			So(a.Resistant, ShouldBeFalse)
			So(a.Virus, ShouldEqual, 0.5)
			So(a.Antibodies, ShouldEqual, 0.5)

			Convey("The second tick drives the load below zero and it recovers", func() {
				sim.Step(1)
				So(a.Infected, ShouldBeFalse)
				So(a.Resistant, ShouldBeTrue)
				So(a.Virus, ShouldEqual, 0.0)
				So(a.Antibodies, ShouldEqual, 0.75)

				Convey("And it stays resistant", func() {
					for i := 0; i < 50; i++ {
						sim.Step(1)
					}
					So(a.Resistant, ShouldBeTrue)
					So(a.Infected, ShouldBeFalse)
				})
			})
		})
	})
}

func TestPopulationInvariants(t *testing.T) {
	Convey("Given a running city with an active epidemic and both policies", t, func() {
		sim := newTestSim(t, 1200, 5, func(p *Params) {
			p.AmbientRate = 0.02
			p.DiseaseTimeScale = 1
		})
		sim.Controls.SetPolicy(Policy{HomeBound: 200, Masked: 300})
		sim.Start()

		Convey("Every tick conserves the population and never un-recovers anyone", func() {
			lastResistant := 0
			var leaks, shrinks, both, negative, outside int
			for tick := 0; tick < 600; tick++ {
				sim.Step(0.5)
				tally := Tally(sim.Agents)
				if tally.Total() != len(sim.Agents) {
					leaks++
				}
				if tally.Resistant < lastResistant {
					shrinks++
				}
				lastResistant = tally.Resistant

				for i := range sim.Agents {
					a := &sim.Agents[i]
					if a.Infected && a.Resistant {
						both++
					}
					if a.Virus < 0 || a.Antibodies < 0 {
						negative++
					}
					if !a.AtHome && !sim.Grid.Bounds.Contains(a.Pos) {
						outside++
					}
				}
			}
			So(leaks, ShouldEqual, 0)
			So(shrinks, ShouldEqual, 0)
			So(both, ShouldEqual, 0)
			So(negative, ShouldEqual, 0)
			So(outside, ShouldEqual, 0)
			So(lastResistant, ShouldBeGreaterThan, 0)
		})
	})
}

func TestDeterminism(t *testing.T) {
	run := func(workers int) *Simulation {
		sim := newTestSim(t, 2000, 21, func(p *Params) {
			p.AmbientRate = 0.01
			p.DiseaseTimeScale = 1
			p.Workers = workers
		})
		sim.Controls.SetPolicy(Policy{HomeBound: 100, Masked: 500})
		sim.Start()
		for i := 0; i < 400; i++ {
			sim.Step(0.25)
		}
		return sim
	}

	Convey("Given identical seeds and configuration", t, func() {
		a, b := run(1), run(1)

		Convey("Repeated runs end in identical agent states and series", func() {
			So(reflect.DeepEqual(a.Agents, b.Agents), ShouldBeTrue)
			So(a.Series, ShouldResemble, b.Series)
		})

		Convey("The worker count does not change the result", func() {
			c := run(8)
			So(reflect.DeepEqual(a.Agents, c.Agents), ShouldBeTrue)
			So(a.Series, ShouldResemble, c.Series)
			So(a.Series.Len(), ShouldBeGreaterThan, 0)
		})
	})
}
