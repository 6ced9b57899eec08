// Command seed-cars loads a JSON array of cars into the Cars table, for
// LocalStack and fresh environments.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
	"github.com/yashrajoria/car-rental/backend/services/common/logger"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

type CarWriter interface {
	Put(ctx context.Context, car models.Car) error
}

func main() {
	var file, table string
	flag.StringVar(&file, "file", "cars.json", "JSON file holding an array of cars")
	flag.StringVar(&table, "table", bootstrap.GetEnv("DDB_TABLE_CARS", "Cars"), "DynamoDB table name")
	flag.Parse()

	log := logger.MustNew(bootstrap.GetEnv("APP_ENV", "development"), nil)
	defer log.Sync()

	f, err := os.Open(file)
	if err != nil {
		log.Fatal("open seed file", zap.String("file", file), zap.Error(err))
	}
	defer f.Close()

	cars, err := loadCars(f)
	if err != nil {
		log.Fatal("read seed file", zap.String("file", file), zap.Error(err))
	}

	ctx := context.Background()
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		log.Fatal("aws config", zap.Error(err))
	}
	repo := repository.NewDynamoCarAdapter(dynamodb.NewFromConfig(awsCfg), table)

	count := seed(ctx, repo, cars, log)
	fmt.Printf("Seeding complete. written=%d skipped=%d\n", count, len(cars)-count)
}

func loadCars(r io.Reader) ([]models.Car, error) {
	var cars []models.Car
	if err := json.NewDecoder(r).Decode(&cars); err != nil {
		return nil, fmt.Errorf("decode cars: %w", err)
	}
	return cars, nil
}

// seed writes every car, giving id-less cars a fresh CarId. Failed writes
// are logged and skipped.
func seed(ctx context.Context, w CarWriter, cars []models.Car, log *zap.Logger) int {
	var count int
	for _, car := range cars {
		if car.CarID == "" {
			car.CarID = uuid.NewString()
		}
		if err := w.Put(ctx, car); err != nil {
			log.Warn("failed to write car", zap.String("car_id", car.CarID), zap.Error(err))
			continue
		}
		count++
		if count%100 == 0 {
			log.Info("seeded cars", zap.Int("count", count))
		}
	}
	return count
}
