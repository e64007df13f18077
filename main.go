package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/kvconn/connection"
	"github.com/Konsultn-Engineering/kvconn/params"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	factory := connection.NewFactory(connection.WithLogger(logger))

	// Single endpoint with implicit session setup: AUTH then SELECT are
	// queued here and flushed when the connection first dials.
	conn, err := factory.Create("redis://:s3cret@localhost:6379/3")
	if err != nil {
		panic("failed to create connection: " + err.Error())
	}
	fmt.Printf("created %T for %s\n", conn, conn.Parameters().Address())

	// A custom scheme built lazily: the initializer receives the factory
	// and assembles a cluster from sub-connections.
	err = factory.Define("cluster", func(p *params.Parameters, f *connection.Factory) (connection.Connection, error) {
		cluster := connection.NewCluster(connection.PickRoundRobin)
		if err := f.Aggregate(cluster,
			"tcp://node1:6379",
			"tcp://node2:6379",
			"tcp://node3:6379",
		); err != nil {
			return nil, err
		}
		return cluster.Pick(), nil
	})
	if err != nil {
		panic("failed to define scheme: " + err.Error())
	}

	picked, err := factory.Create("cluster://ignored")
	if err != nil {
		panic("failed to create cluster connection: " + err.Error())
	}
	fmt.Printf("picked %s from cluster\n", picked.Parameters().Address())
}
