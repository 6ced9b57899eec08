package main

import "github.com/yashrajoria/car-rental/backend/services/common/bootstrap"

type Config struct {
	Port      string
	CartTable string
	CarsTable string
}

func LoadConfig() *Config {
	return &Config{
		Port:      bootstrap.GetEnv("PORT", "8086"),
		CartTable: bootstrap.GetEnv("DDB_TABLE_CART", "ShoppingCart"),
		CarsTable: bootstrap.GetEnv("DDB_TABLE_CARS", "Cars"),
	}
}
