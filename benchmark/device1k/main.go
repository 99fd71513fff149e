package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	plantGrpc "liyu1981.xyz/plant-monitor-service/pkg/grpc"
)

var maxDevices int = 1000
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient *plantGrpc.DevicePollClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

func main() {
	macs := make([]string, maxDevices)
	for i := range maxDevices {
		macs[i] = fmt.Sprintf("B0:0C:%02X:%02X:%02X:%02X", byte(i>>24), byte(i>>16), byte(i>>8), byte(i))
	}
	fmt.Printf("generated %v device MACs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = plantGrpc.NewDevicePollClient(conn)

	fmt.Printf("gRPC server verified and connected\n")

	var startTime time.Time
	var usedTime time.Duration

	plantIDs := make([]uint, maxDevices)

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			plantIDs[i] = register(macs[i])
			fmt.Printf("\rregistered device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rregistered %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			doAction(plantIDs[i], macs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices*4)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndInt(n int32) int32 {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(n)
}

func register(mac string) uint {
	if flipCoin() {
		jsonData, _ := json.Marshal(map[string]string{"mac": mac})
		resp, err := http.Post(fmt.Sprintf("http://%s/devices/register", httpHostPort), "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			panic(err)
		}
		defer resp.Body.Close()

		var body struct {
			Device struct {
				ID uint `json:"id"`
			} `json:"device"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || resp.StatusCode != http.StatusOK {
			panic(fmt.Sprintf("err: %v, status: %v", err, resp.StatusCode))
		}
		return body.Device.ID
	}

	resp, err := grpcClient.Register(context.Background(), mac)
	if err != nil {
		panic(fmt.Sprintf("err: %v, resp: %v", err, resp))
	}
	return uint(resp.GetFields()["id"].GetNumberValue())
}

func doAction(plantID uint, mac string) {
	actions := []func(){
		genSetCommandAction(plantID),
		genPollCommandAction(mac),
		genAckCommandAction(mac),
		genPollResetAction(mac),
	}
	actionNames := []string{
		"SetCommand",
		"PollCommand",
		"AckCommand",
		"PollReset",
	}
	rndMu.Lock()
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	rndMu.Unlock()
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for device %v", actionNames[index], mac)
		time.Sleep(time.Duration(100+rndInt(1000)) * time.Millisecond)
	}
}

func genSetCommandAction(plantID uint) func() {
	return func() {
		payload := map[string]int{"kind": int(1 + rndInt(4)), "value": int(rndInt(100))}
		jsonData, _ := json.Marshal(payload)
		resp, err := http.Post(fmt.Sprintf("http://%s/plants/%d/commands", httpHostPort, plantID), "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusAccepted {
			fmt.Printf("\nset command status = %v for plant %v\n", resp.StatusCode, plantID)
		}
	}
}

func genPollCommandAction(mac string) func() {
	return func() {
		if flipCoin() {
			resp, err := http.Get(fmt.Sprintf("http://%s/devices/%s/command", httpHostPort, mac))
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			defer resp.Body.Close()
			return
		}
		if _, err := grpcClient.GetCommand(context.Background(), mac); err != nil {
			fmt.Printf("\nerror: %v\n", err)
		}
	}
}

func genAckCommandAction(mac string) func() {
	return func() {
		if flipCoin() {
			resp, err := http.Post(fmt.Sprintf("http://%s/devices/%s/command/ack", httpHostPort, mac), "application/json", nil)
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			defer resp.Body.Close()
			return
		}
		if _, err := grpcClient.AckCommand(context.Background(), mac); err != nil {
			fmt.Printf("\nerror: %v\n", err)
		}
	}
}

func genPollResetAction(mac string) func() {
	return func() {
		if flipCoin() {
			resp, err := http.Get(fmt.Sprintf("http://%s/devices/%s/reset", httpHostPort, mac))
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			defer resp.Body.Close()
			return
		}
		if _, err := grpcClient.PollReset(context.Background(), mac); err != nil {
			fmt.Printf("\nerror: %v\n", err)
		}
	}
}
